package splat

// Covariance returns the six unique terms of Σ = (S·R)ᵀ(S·R) for a splat
// with quaternion rotation (x, y, z, w) and per-axis scale, in the order
// Σ00, Σ01, Σ02, Σ11, Σ12, Σ22.
//
// The quaternion is used as given; callers that need a pure rotation
// should normalize it first.
func Covariance(rotation [4]float32, scale [3]float32) [6]float32 {
	x, y, z, w := rotation[0], rotation[1], rotation[2], rotation[3]

	// The conversions round every product so no platform fuses them into
	// FMA instructions; packed half bits must not depend on the target.
	r := [9]float32{
		1 - 2*float32(float32(y*y)+float32(z*z)), 2 * float32(float32(x*y)+float32(w*z)), 2 * float32(float32(x*z)-float32(w*y)),
		2 * float32(float32(x*y)-float32(w*z)), 1 - 2*float32(float32(x*x)+float32(z*z)), 2 * float32(float32(y*z)+float32(w*x)),
		2 * float32(float32(x*z)+float32(w*y)), 2 * float32(float32(y*z)-float32(w*x)), 1 - 2*float32(float32(x*x)+float32(y*y)),
	}

	// Row k of R scaled by scale[k].
	sx, sy, sz := scale[0], scale[1], scale[2]
	m := [9]float32{
		r[0] * sx, r[1] * sx, r[2] * sx,
		r[3] * sy, r[4] * sy, r[5] * sy,
		r[6] * sz, r[7] * sz, r[8] * sz,
	}

	return [6]float32{
		dot3(m[0], m[3], m[6], m[0], m[3], m[6]),
		dot3(m[0], m[3], m[6], m[1], m[4], m[7]),
		dot3(m[0], m[3], m[6], m[2], m[5], m[8]),
		dot3(m[1], m[4], m[7], m[1], m[4], m[7]),
		dot3(m[1], m[4], m[7], m[2], m[5], m[8]),
		dot3(m[2], m[5], m[8], m[2], m[5], m[8]),
	}
}

func dot3(a0, a1, a2, b0, b1, b2 float32) float32 {
	return float32(float32(a0*b0)+float32(a1*b1)) + float32(a2*b2)
}
