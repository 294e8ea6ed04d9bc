package lsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicOpNames(t *testing.T) {
	for o := AtomicOp(0); o < numAtomicOps; o++ {
		got, err := ParseAtomicOp(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := ParseAtomicOp("nand")
	assert.Error(t, err)
	assert.Equal(t, "AtomicOp(200)", AtomicOp(200).String())
}

func TestAtomicNumSources(t *testing.T) {
	want := map[AtomicOp]int{
		AtomicInc: 0, AtomicDec: 0, AtomicLoad: 0,
		AtomicStore: 1, AtomicAdd: 1, AtomicUMax: 1, AtomicXor: 1, AtomicFAdd: 1, AtomicFMax: 1,
		AtomicCmpXchg: 2, AtomicFCmpXchg: 2,
	}
	for op, n := range want {
		if got := op.NumSources(); got != n {
			t.Errorf("%s.NumSources() = %d, want %d", op, got, n)
		}
	}
}

func TestCheckAtomic(t *testing.T) {
	tests := []struct {
		op      AtomicOp
		elem    ElementType
		sources int
		ok      bool
	}{
		{AtomicInc, Uint32, 0, true},
		{AtomicInc, Uint32, 1, false},
		{AtomicAdd, Int64, 1, true},
		{AtomicAdd, Int16, 1, false},
		{AtomicAdd, Float32, 1, false},
		{AtomicUMin, Uint64, 1, true},
		{AtomicCmpXchg, Uint32, 2, true},
		{AtomicCmpXchg, Uint32, 1, false},
		{AtomicFAdd, Float32, 1, true},
		{AtomicFAdd, Half, 1, true},
		{AtomicFAdd, Int32, 1, false},
		{AtomicFCmpXchg, Float64, 2, true},
		{AtomicFMin, BFloat16, 1, true},
		{AtomicXchg, Float32, 1, true},
		{AtomicLoad, Float64, 0, true},
		{AtomicStore, Uint8, 1, false},
		{AtomicOp(99), Uint32, 1, false},
	}
	for _, tt := range tests {
		err := CheckAtomic(tt.op, tt.elem, tt.sources)
		if tt.ok {
			assert.NoError(t, err, "%s %s %d", tt.op, tt.elem, tt.sources)
		} else {
			assert.ErrorIs(t, err, ErrInvalidOperand, "%s %s %d", tt.op, tt.elem, tt.sources)
		}
	}
}
