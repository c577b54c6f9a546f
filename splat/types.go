package splat

import "github.com/mrjoshuak/go-gsplat/internal/radix"

// Layout constants shared with the consuming shaders.
const (
	// TextureWidth is the fixed width of a packed texture in texels.
	TextureWidth = 2048
	// TexelsPerSplat is the number of RGBA32 texels one splat occupies.
	TexelsPerSplat = 2
	// LanesPerSplat is the number of 32-bit lanes one splat occupies.
	LanesPerSplat = 4 * TexelsPerSplat

	// DepthScale converts view-space depth to 20.12 fixed point.
	DepthScale = 4096
	// CovarianceScale multiplies every covariance term before packing.
	CovarianceScale = 4
)

// Kernel selects how depth keys and the radix sort are executed.
type Kernel = radix.Kernel

// Kernels. Every kernel produces identical results.
const (
	KernelAuto   = radix.Auto
	KernelScalar = radix.Scalar
	KernelWide   = radix.Wide
)

// ParseKernel parses "auto", "scalar" or "wide".
func ParseKernel(s string) (Kernel, error) {
	return radix.ParseKernel(s)
}

// DetectKernel returns the kernel KernelAuto resolves to on this CPU.
func DetectKernel() Kernel {
	return radix.Detect()
}

// SplatSet holds Count splats as parallel attribute slices.
//
// Positions and Scales hold three floats per splat, Rotations four
// (quaternion x, y, z, w) and Colors four bytes (r, g, b, a).
type SplatSet struct {
	Count     int
	Positions []float32
	Scales    []float32
	Rotations []float32
	Colors    []uint8
}

// NewSplatSet allocates zeroed attribute slices for count splats.
func NewSplatSet(count int) SplatSet {
	return SplatSet{
		Count:     count,
		Positions: make([]float32, 3*count),
		Scales:    make([]float32, 3*count),
		Rotations: make([]float32, 4*count),
		Colors:    make([]uint8, 4*count),
	}
}

// Validate checks that every slice is sized exactly for Count.
func (s SplatSet) Validate() error {
	if s.Count < 0 {
		return ErrNegativeCount
	}
	if err := checkLen("positions", len(s.Positions), 3*s.Count); err != nil {
		return err
	}
	if err := checkLen("scales", len(s.Scales), 3*s.Count); err != nil {
		return err
	}
	if err := checkLen("rotations", len(s.Rotations), 4*s.Count); err != nil {
		return err
	}
	return checkLen("colors", len(s.Colors), 4*s.Count)
}

// Clone returns a deep copy of s.
func (s SplatSet) Clone() SplatSet {
	c := NewSplatSet(s.Count)
	copy(c.Positions, s.Positions)
	copy(c.Scales, s.Scales)
	copy(c.Rotations, s.Rotations)
	copy(c.Colors, s.Colors)
	return c
}

// Position returns the position of splat i.
func (s SplatSet) Position(i int) [3]float32 {
	return [3]float32(s.Positions[3*i : 3*i+3])
}

// Scale returns the scale of splat i.
func (s SplatSet) Scale(i int) [3]float32 {
	return [3]float32(s.Scales[3*i : 3*i+3])
}

// Rotation returns the quaternion (x, y, z, w) of splat i.
func (s SplatSet) Rotation(i int) [4]float32 {
	return [4]float32(s.Rotations[4*i : 4*i+4])
}

// Color returns the RGBA color of splat i.
func (s SplatSet) Color(i int) [4]uint8 {
	return [4]uint8(s.Colors[4*i : 4*i+4])
}
