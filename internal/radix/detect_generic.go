//go:build !amd64 && !arm64

package radix

// wideSupported is false on platforms without a tuned wide kernel; Sort
// falls back to the scalar reference.
func wideSupported() bool {
	return false
}
