//go:build arm64

package lsc

import "golang.org/x/sys/cpu"

func hostHas64BitAtomics() bool {
	// LSE atomics (ARMv8.1).
	return cpu.ARM64.HasATOMICS
}
