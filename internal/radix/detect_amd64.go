//go:build amd64

package radix

import "golang.org/x/sys/cpu"

// wideSupported reports whether the CPU has the wide loads and spare
// registers the fused histogram loop is tuned for.
func wideSupported() bool {
	return cpu.X86.HasAVX2
}
