package radix

import "sync"

var detected = sync.OnceValue(func() Kernel {
	if wideSupported() {
		return Wide
	}
	return Scalar
})

// Detect returns the fastest kernel for the running CPU. The result is
// computed once per process.
func Detect() Kernel {
	return detected()
}
