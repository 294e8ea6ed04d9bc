package lsc

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// primitivePrefix is shared by every low-level primitive name.
const primitivePrefix = "__cm_intrinsic_impl_"

// PrimitiveKey selects one primitive family.
type PrimitiveKey struct {
	Space AddressSpace
	Shape ShapeKind
	Kind  OperationKind
}

func (k PrimitiveKey) String() string {
	return fmt.Sprintf("%s %s on %s", k.Kind, k.Shape, k.Space)
}

// Primitive is one entry of the fixed dispatch table.
type Primitive struct {
	Name     string // full primitive name, e.g. "__cm_intrinsic_impl_load_bti"
	Key      PrimitiveKey
	Features []Feature
}

// RequiredFeatures returns the features a request for elements of type e
// needs. 8-byte atomics on shared local memory need a 64-bit SLM atomic
// unit.
func (p Primitive) RequiredFeatures(e ElementType) []Feature {
	if p.Key.Kind == OpAtomic && p.Key.Space == SharedLocalMemory && e.Size == 8 {
		return append(slices.Clone(p.Features), FeatureSLMAtomicInt64)
	}
	return p.Features
}

var (
	lscOnly     = []Feature{FeatureLSC}
	untyped2D   = []Feature{FeatureLSC, FeatureLSCUntyped2D}
	typed2D     = []Feature{FeatureLSC, FeatureLSCTyped2D}
	typedQuad   = []Feature{FeatureLSC, FeatureLSCTyped}
	spaceSuffix = map[AddressSpace]string{SurfaceIndexed: "bti", FlatPointer: "flat", SharedLocalMemory: "slm"}
)

// primitiveTable is keyed by (address space, shape, kind). Validation and
// this table must agree: every request that passes validation has exactly
// one entry.
var primitiveTable = buildPrimitiveTable()

func buildPrimitiveTable() map[PrimitiveKey]Primitive {
	t := make(map[PrimitiveKey]Primitive)
	add := func(kind OperationKind, shape ShapeKind, stem string, features []Feature, spaces ...AddressSpace) {
		for _, s := range spaces {
			k := PrimitiveKey{Space: s, Shape: shape, Kind: kind}
			name := primitivePrefix + stem
			if shape != ShapeBlock2D && shape != ShapeTyped2D && shape != ShapeTypedQuad {
				name += "_" + spaceSuffix[s]
			}
			t[k] = Primitive{Name: name, Key: k, Features: features}
		}
	}

	add(OpPrefetch, ShapeScalar, "prefetch", lscOnly, SurfaceIndexed, FlatPointer)
	add(OpPrefetch, ShapeBlock, "block_prefetch", lscOnly, SurfaceIndexed, FlatPointer)
	add(OpPrefetch, ShapeBlock2D, "block_prefetch2d_flat", untyped2D, FlatPointer)
	add(OpPrefetch, ShapeTyped2D, "prefetch2d_bti", typed2D, SurfaceIndexed)
	add(OpPrefetch, ShapeTypedQuad, "prefetch4_typed_bti", typedQuad, SurfaceIndexed)

	add(OpLoad, ShapeScalar, "load", lscOnly, SurfaceIndexed, FlatPointer, SharedLocalMemory)
	add(OpLoad, ShapeBlock, "block_load", lscOnly, SurfaceIndexed, FlatPointer)
	add(OpLoad, ShapeQuad, "load4", lscOnly, SurfaceIndexed, FlatPointer, SharedLocalMemory)
	add(OpLoad, ShapeBlock2D, "block_load2d_flat", untyped2D, FlatPointer)
	add(OpLoad, ShapeTyped2D, "load2d_bti", typed2D, SurfaceIndexed)
	add(OpLoad, ShapeTypedQuad, "load4_typed_bti", typedQuad, SurfaceIndexed)

	add(OpStore, ShapeScalar, "store", lscOnly, SurfaceIndexed, FlatPointer, SharedLocalMemory)
	add(OpStore, ShapeBlock, "block_store", lscOnly, SurfaceIndexed, FlatPointer)
	add(OpStore, ShapeQuad, "store4", lscOnly, SurfaceIndexed, FlatPointer, SharedLocalMemory)
	add(OpStore, ShapeBlock2D, "block_store2d_flat", untyped2D, FlatPointer)
	add(OpStore, ShapeTyped2D, "store2d_bti", typed2D, SurfaceIndexed)
	add(OpStore, ShapeTypedQuad, "store4_typed_bti", typedQuad, SurfaceIndexed)

	add(OpAtomic, ShapeScalar, "lsc_atomic", lscOnly, SurfaceIndexed, FlatPointer, SharedLocalMemory)
	return t
}

// fencePrimitive orders memory; it has no address space or shape.
var fencePrimitive = Primitive{Name: primitivePrefix + "lsc_fence", Features: lscOnly}

// LookupPrimitive returns the table entry for key.
func LookupPrimitive(key PrimitiveKey) (Primitive, bool) {
	p, ok := primitiveTable[key]
	return p, ok
}

// Primitives lists the dispatch table ordered by kind, shape and space.
func Primitives() []Primitive {
	ps := lo.Values(primitiveTable)
	slices.SortFunc(ps, func(a, b Primitive) int {
		return cmp.Or(
			cmp.Compare(a.Key.Kind, b.Key.Kind),
			cmp.Compare(a.Key.Shape, b.Key.Shape),
			cmp.Compare(a.Key.Space, b.Key.Space),
		)
	})
	return ps
}
