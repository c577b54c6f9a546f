// Package half provides IEEE 754 binary16 half-precision floating-point numbers.
//
// Half-precision floats use 16 bits with the following layout:
//   - 1 bit sign
//   - 5 bits exponent (bias of 15)
//   - 10 bits mantissa (implicit leading 1 for normalized values)
//
// Splat covariance terms are stored as pairs of halves packed into one
// 32-bit texture lane, matching the GLSL packHalf2x16 layout.
package half

import (
	"math"
	"strconv"
)

// Half represents an IEEE 754 binary16 half-precision floating-point number.
type Half uint16

const (
	signBit      = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF
	quietBit     = 0x0200

	exponentBias = 15
	maxExponent  = 31
)

// Common constant values.
const (
	// Inf is positive infinity.
	Inf = Half(0x7C00)
	// NegInf is negative infinity.
	NegInf = Half(0xFC00)
	// NaN is a quiet NaN value.
	NaN = Half(0x7E00)
	// Zero is positive zero.
	Zero = Half(0x0000)
	// NegZero is negative zero.
	NegZero = Half(0x8000)
	// Max is the largest finite positive value (65504).
	Max = Half(0x7BFF)
	// Min is the most negative finite value (-65504).
	Min = Half(0xFBFF)
	// SmallestNormal is the smallest positive normalized value (2^-14).
	SmallestNormal = Half(0x0400)
	// SmallestSubnormal is the smallest positive subnormal value (2^-24).
	SmallestSubnormal = Half(0x0001)
)

// FromFloat32 converts a float32 to a Half using round-to-nearest-even.
//
// Signed zeros are preserved, results below half the smallest subnormal
// flush to a signed zero, finite values beyond Max become a signed
// infinity and NaN inputs stay NaN (quieted, upper payload bits kept).
func FromFloat32(f float32) Half {
	return fromBits32(math.Float32bits(f))
}

func fromBits32(bits uint32) Half {
	sign := uint16((bits >> 16) & signBit)
	exp := int((bits >> 23) & 0xFF)
	mantissa := bits & 0x007FFFFF

	switch exp {
	case 0xFF:
		if mantissa == 0 {
			return Half(sign | exponentMask)
		}
		return Half(sign | exponentMask | quietBit | uint16(mantissa>>13))
	case 0:
		// float32 subnormals are far below 2^-25.
		return Half(sign)
	}

	exp = exp - 127 + exponentBias

	if exp >= maxExponent {
		return Half(sign | exponentMask)
	}
	if exp < -10 {
		return Half(sign)
	}

	if exp <= 0 {
		// Subnormal result. A carry out of the mantissa lands on the
		// exponent field and yields SmallestNormal, which is correct.
		mantissa |= 0x00800000
		shift := uint(14 - exp)

		m := mantissa >> shift
		round := (mantissa >> (shift - 1)) & 1
		sticky := mantissa & ((1 << (shift - 1)) - 1)
		if round != 0 && (sticky != 0 || m&1 != 0) {
			m++
		}
		return Half(sign | uint16(m))
	}

	m := mantissa >> 13
	round := (mantissa >> 12) & 1
	sticky := mantissa & 0x0FFF
	if round != 0 && (sticky != 0 || m&1 != 0) {
		m++
		if m > mantissaMask {
			m = 0
			exp++
			if exp >= maxExponent {
				return Half(sign | exponentMask)
			}
		}
	}

	return Half(sign | uint16(exp<<10) | uint16(m))
}

// Float32 converts a Half to a float32. The conversion is exact.
func (h Half) Float32() float32 {
	return math.Float32frombits(h.bits32())
}

func (h Half) bits32() uint32 {
	sign := uint32(h&signBit) << 16
	exp := int((h >> 10) & 0x1F)
	mantissa := uint32(h & mantissaMask)

	switch exp {
	case 0:
		if mantissa == 0 {
			return sign
		}
		// Renormalize.
		for mantissa&0x0400 == 0 {
			mantissa <<= 1
			exp--
		}
		exp++
		mantissa &= mantissaMask
		return sign | uint32(exp-exponentBias+127)<<23 | mantissa<<13
	case maxExponent:
		if mantissa == 0 {
			return sign | 0x7F800000
		}
		return sign | 0x7F800000 | 0x00400000 | mantissa<<13
	default:
		return sign | uint32(exp-exponentBias+127)<<23 | mantissa<<13
	}
}

// FromBits creates a Half from its IEEE 754 binary16 bit representation.
func FromBits(bits uint16) Half {
	return Half(bits)
}

// Bits returns the IEEE 754 binary16 representation of h.
func (h Half) Bits() uint16 {
	return uint16(h)
}

// IsNaN reports whether h is a NaN value.
func (h Half) IsNaN() bool {
	return h&exponentMask == exponentMask && h&mantissaMask != 0
}

// IsInf reports whether h is positive or negative infinity.
func (h Half) IsInf() bool {
	return h&0x7FFF == exponentMask
}

// IsZero reports whether h is positive or negative zero.
func (h Half) IsZero() bool {
	return h&0x7FFF == 0
}

// IsSubnormal reports whether h is a non-zero subnormal value.
func (h Half) IsSubnormal() bool {
	return h&exponentMask == 0 && h&mantissaMask != 0
}

// IsFinite reports whether h is neither infinite nor NaN.
func (h Half) IsFinite() bool {
	return h&exponentMask != exponentMask
}

// Signbit reports whether the sign bit of h is set.
func (h Half) Signbit() bool {
	return h&signBit != 0
}

// Abs returns h with the sign bit cleared.
func (h Half) Abs() Half {
	return h &^ signBit
}

// String formats h using the shortest float32 representation.
func (h Half) String() string {
	switch {
	case h.IsNaN():
		return "NaN"
	case h == Inf:
		return "+Inf"
	case h == NegInf:
		return "-Inf"
	}
	return strconv.FormatFloat(float64(h.Float32()), 'g', -1, 32)
}
