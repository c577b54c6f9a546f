package splat

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when an input slice is not sized for
	// the splat count, or a view matrix does not have 16 elements.
	ErrLengthMismatch = errors.New("splat: input length mismatch")

	// ErrIndexOutOfRange is returned when a permutation refers to a splat
	// that does not exist.
	ErrIndexOutOfRange = errors.New("splat: index out of range")

	// ErrCapacityExceeded is returned when a Sorter is given more splats
	// than it was created for.
	ErrCapacityExceeded = errors.New("splat: sorter capacity exceeded")

	// ErrNegativeCount is returned for a negative splat count.
	ErrNegativeCount = errors.New("splat: negative count")
)

// LengthError describes an input slice of the wrong length.
type LengthError struct {
	Field string
	Got   int
	Want  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("splat: %s has length %d, want %d", e.Field, e.Got, e.Want)
}

// Unwrap returns ErrLengthMismatch.
func (e *LengthError) Unwrap() error {
	return ErrLengthMismatch
}

// IndexError describes the first out-of-range entry of a permutation.
type IndexError struct {
	Position int
	Index    uint32
	Count    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("splat: permutation[%d] = %d, want < %d", e.Position, e.Index, e.Count)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// CapacityError is returned when a request exceeds a Sorter's MaxCount.
type CapacityError struct {
	Requested int
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("splat: %d splats exceed sorter capacity %d", e.Requested, e.Capacity)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

func checkLen(field string, got, want int) error {
	if got != want {
		return &LengthError{Field: field, Got: got, Want: want}
	}
	return nil
}
