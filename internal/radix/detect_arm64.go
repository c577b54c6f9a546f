//go:build arm64

package radix

import "golang.org/x/sys/cpu"

// wideSupported reports whether the CPU implements Advanced SIMD.
func wideSupported() bool {
	return cpu.ARM64.HasASIMD
}
