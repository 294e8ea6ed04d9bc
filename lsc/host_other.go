//go:build !amd64 && !arm64

package lsc

// Other hosts emulate 8-byte SLM atomics with locks, which the emulator
// does not do.
func hostHas64BitAtomics() bool { return false }
