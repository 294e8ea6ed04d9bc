package lsc

import (
	"fmt"
	"strings"
)

// AtomicOp is the operation of an atomic message.
type AtomicOp uint8

const (
	AtomicInc AtomicOp = iota
	AtomicDec
	AtomicLoad
	AtomicStore
	AtomicAdd
	AtomicSub
	AtomicMin  // signed
	AtomicMax  // signed
	AtomicUMin // unsigned
	AtomicUMax // unsigned
	AtomicXchg
	AtomicAnd
	AtomicOr
	AtomicXor
	AtomicFAdd
	AtomicFSub
	AtomicFMin
	AtomicFMax
	AtomicCmpXchg
	AtomicFCmpXchg
	numAtomicOps
)

var atomicOpNames = [...]string{
	AtomicInc:      "inc",
	AtomicDec:      "dec",
	AtomicLoad:     "load",
	AtomicStore:    "store",
	AtomicAdd:      "add",
	AtomicSub:      "sub",
	AtomicMin:      "min",
	AtomicMax:      "max",
	AtomicUMin:     "umin",
	AtomicUMax:     "umax",
	AtomicXchg:     "xchg",
	AtomicAnd:      "and",
	AtomicOr:       "or",
	AtomicXor:      "xor",
	AtomicFAdd:     "fadd",
	AtomicFSub:     "fsub",
	AtomicFMin:     "fmin",
	AtomicFMax:     "fmax",
	AtomicCmpXchg:  "cmpxchg",
	AtomicFCmpXchg: "fcmpxchg",
}

func (o AtomicOp) String() string {
	if o < numAtomicOps {
		return atomicOpNames[o]
	}
	return fmt.Sprintf("AtomicOp(%d)", uint8(o))
}

// ParseAtomicOp is the inverse of AtomicOp.String.
func ParseAtomicOp(s string) (AtomicOp, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o := AtomicOp(0); o < numAtomicOps; o++ {
		if atomicOpNames[o] == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown atomic op: %q", s)
}

// NumSources returns how many source operands the operation takes.
func (o AtomicOp) NumSources() int {
	switch o {
	case AtomicInc, AtomicDec, AtomicLoad:
		return 0
	case AtomicCmpXchg, AtomicFCmpXchg:
		return 2
	default:
		return 1
	}
}

// IsFloat reports whether the operation interprets data as floating point.
func (o AtomicOp) IsFloat() bool {
	switch o {
	case AtomicFAdd, AtomicFSub, AtomicFMin, AtomicFMax, AtomicFCmpXchg:
		return true
	}
	return false
}

// bitwise ops move data without interpreting it.
func (o AtomicOp) bitwise() bool {
	switch o {
	case AtomicLoad, AtomicStore, AtomicXchg:
		return true
	}
	return false
}

// CheckAtomic validates the element type and source operand count of an
// atomic message.
func CheckAtomic(op AtomicOp, e ElementType, sources int) error {
	if op >= numAtomicOps {
		return &OperandError{Op: op.String(), Reason: "unknown atomic operation"}
	}
	if want := op.NumSources(); sources != want {
		return &OperandError{Op: op.String(), Reason: fmt.Sprintf("takes %d source operands, got %d", want, sources)}
	}
	switch {
	case op.IsFloat():
		if !e.Float || (e.Size != 2 && e.Size != 4 && e.Size != 8) {
			return &OperandError{Op: op.String(), Reason: fmt.Sprintf("needs a 2, 4 or 8-byte float element, got %s", e)}
		}
	case op.bitwise():
		if e.Size != 4 && e.Size != 8 {
			return &OperandError{Op: op.String(), Reason: fmt.Sprintf("needs a 4 or 8-byte element, got %s", e)}
		}
	default:
		if e.Float || (e.Size != 4 && e.Size != 8) {
			return &OperandError{Op: op.String(), Reason: fmt.Sprintf("needs a 4 or 8-byte integer element, got %s", e)}
		}
	}
	return nil
}
