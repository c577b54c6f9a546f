// Package splatio reads and writes splat data: the 32-byte-per-splat
// .splat layout, a compressed container for packed textures, and a
// JPEG 2000 preview of texture colors.
package splatio

import "errors"

var (
	// ErrTruncated is returned when input ends inside a record or header.
	ErrTruncated = errors.New("splatio: truncated input")

	// ErrBadMagic is returned when a texture container does not start
	// with the expected magic bytes.
	ErrBadMagic = errors.New("splatio: bad magic number")

	// ErrUnsupportedVersion is returned for an unknown container version.
	ErrUnsupportedVersion = errors.New("splatio: unsupported version")

	// ErrUnknownCompression is returned for an unknown compression method.
	ErrUnknownCompression = errors.New("splatio: unknown compression")

	// ErrCorrupt is returned when a container header or payload is
	// inconsistent.
	ErrCorrupt = errors.New("splatio: corrupt data")
)
