package lsc

import (
	"context"
	"fmt"
	"strings"
)

// Surface2D locates a 2D block inside a flat surface.
type Surface2D struct {
	Width, Height, Pitch uint32 // surface size and row pitch in bytes, minus one
	X, Y                 int32  // upper left corner in elements and rows
}

// Operands are the per-call arguments of a primitive. They are forwarded
// to the Invoker unchanged.
type Operands struct {
	Surface   uint32   // surface index for SurfaceIndexed requests
	Base      uint64   // base address for FlatPointer requests
	Offsets   []uint32 // per-channel byte offsets; block messages use Offsets[0]
	Predicate []bool   // per-channel enable; nil enables every channel
	Surface2D *Surface2D
	U, V, R   []uint32 // typed surface coordinates
	LOD       []uint32
	Sources   []any // store data or atomic sources
}

// Shaped is a request that passed every check, with its resolved shape.
type Shaped struct {
	Key      PrimitiveKey
	Element  ElementType
	Hints    HintPair
	Vector   *VectorShape
	Layout   *PaddedLayout
	Block    *BlockShape
	Atomic   *AtomicOp
	Mask     ChannelMask
	Operands Operands
}

// Invocation is one fully typed call of a primitive.
type Invocation struct {
	Primitive string
	Key       PrimitiveKey

	// CastType is the unsigned type of the element's width; data is
	// reinterpreted through it.
	CastType    ElementType
	DataSize    DataSize
	Vector      VectorSize
	Channels    int
	Transposed  bool
	Transformed bool
	Hints       HintPair
	Mask        ChannelMask
	Atomic      *AtomicOp
	Block       *BlockShape
	Fence       *FenceRequest

	// Elements is the register payload of the primitive: the padded count
	// for 2D block loads.
	Elements int
	Operands Operands
}

func (inv Invocation) String() string {
	var sb strings.Builder
	sb.WriteString(inv.Primitive)
	sb.WriteByte('<')
	if inv.Fence != nil {
		fmt.Fprintf(&sb, "%s, %s, %s, N=%d>", inv.Fence.SFID, inv.Fence.Op, inv.Fence.Scope, inv.Channels)
		return sb.String()
	}
	args := []string{inv.CastType.String()}
	if inv.Atomic != nil {
		args = append([]string{inv.Atomic.String()}, args...)
	}
	if inv.DataSize != DataSizeDefault {
		args = append(args, inv.DataSize.String())
	}
	if inv.Vector.Valid() {
		args = append(args, inv.Vector.String())
	}
	if inv.Block != nil {
		args = append(args, fmt.Sprintf("%dx%dx%d", inv.Block.Width, inv.Block.Height, inv.Block.numBlocks()))
	}
	if inv.Mask != 0 {
		args = append(args, inv.Mask.String())
	}
	args = append(args, inv.Hints.L1.String(), inv.Hints.L2.String())
	if inv.Transposed {
		args = append(args, "transposed")
	}
	if inv.Transformed {
		args = append(args, "transformed")
	}
	if inv.Channels > 0 {
		args = append(args, fmt.Sprintf("N=%d", inv.Channels))
	}
	sb.WriteString(strings.Join(args, ", "))
	sb.WriteByte('>')
	return sb.String()
}

// Invoker is the low-level primitive surface. Each validated request
// produces exactly one Invoke call.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) error
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, inv Invocation) error

func (f InvokerFunc) Invoke(ctx context.Context, inv Invocation) error { return f(ctx, inv) }

// Dispatch selects the single primitive for a shaped request. It fails
// only with ErrNoPrimitive, when validation accepted a combination the
// table does not have.
func Dispatch(s Shaped) (Invocation, error) {
	p, ok := LookupPrimitive(s.Key)
	if !ok {
		return Invocation{}, noPrimitiveError(s.Key)
	}
	inv := Invocation{
		Primitive: p.Name,
		Key:       s.Key,
		CastType:  CastType(s.Element),
		Hints:     s.Hints,
		Mask:      s.Mask,
		Atomic:    s.Atomic,
		Block:     s.Block,
		Operands:  s.Operands,
	}
	switch {
	case s.Vector != nil:
		inv.DataSize = s.Vector.DataSize
		inv.Vector = s.Vector.Vector
		inv.Channels = s.Vector.Channels
		inv.Transposed = s.Vector.Transposed
		inv.Elements = s.Vector.TotalElements
	case s.Layout != nil:
		inv.DataSize = dataSizeForBytes(s.Element.Size)
		inv.Elements = s.Layout.TotalPadded
		if s.Block != nil {
			inv.Transposed = s.Block.Transposed
			inv.Transformed = s.Block.Transformed
		}
	default:
		return Invocation{}, noPrimitiveError(s.Key)
	}
	return inv, nil
}
