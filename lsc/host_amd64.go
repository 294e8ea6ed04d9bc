//go:build amd64

package lsc

import "golang.org/x/sys/cpu"

// hostHas64BitAtomics reports whether the emulation host can back 8-byte
// shared local memory atomics with native instructions.
func hostHas64BitAtomics() bool {
	// CMPXCHG16B implies the full 8-byte lock-prefixed set.
	return cpu.X86.HasCX16
}
