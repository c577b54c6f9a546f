package splat

import "github.com/go-gl/mathgl/mgl32"

// ViewMatrix is a 4×4 camera transform in the mgl32.Mat4 element order.
//
// Only the view-space z row is read: elements 2, 6 and 10 weight the x, y
// and z coordinates of a position and element 14 is the translation.
type ViewMatrix [16]float32

// ViewMatrixFromSlice copies a 16-element matrix.
func ViewMatrixFromSlice(m []float32) (ViewMatrix, error) {
	if len(m) != 16 {
		return ViewMatrix{}, &LengthError{Field: "view matrix", Got: len(m), Want: 16}
	}
	return ViewMatrix(m), nil
}

// ViewFromMat4 converts a mathgl matrix.
func ViewFromMat4(m mgl32.Mat4) ViewMatrix {
	return ViewMatrix(m)
}

// LookAt builds the view matrix of a camera at eye looking at center.
// The camera looks down its -z axis, so farther splats get smaller depth
// keys and sort first.
func LookAt(eye, center, up mgl32.Vec3) ViewMatrix {
	return ViewFromMat4(mgl32.LookAtV(eye, center, up))
}

// Mat4 returns v as a mathgl matrix.
func (v ViewMatrix) Mat4() mgl32.Mat4 {
	return mgl32.Mat4(v)
}

// DepthAxis returns the view-space z row: the weights of x, y and z and
// the translation.
func (v ViewMatrix) DepthAxis() (x, y, z, t float32) {
	return v[2], v[6], v[10], v[14]
}
