package lsc

import (
	"fmt"
	"strings"
)

// ElementType describes the element type of a memory request.
//
// Only Size participates in primitive selection. Float and Signed are
// carried for operand checks (atomics) and diagnostics.
type ElementType struct {
	Name   string
	Size   int
	Float  bool
	Signed bool
}

var (
	Int8     = ElementType{Name: "int8", Size: 1, Signed: true}
	Uint8    = ElementType{Name: "uint8", Size: 1}
	Int16    = ElementType{Name: "int16", Size: 2, Signed: true}
	Uint16   = ElementType{Name: "uint16", Size: 2}
	Half     = ElementType{Name: "half", Size: 2, Float: true, Signed: true}
	BFloat16 = ElementType{Name: "bfloat16", Size: 2, Float: true, Signed: true}
	Int32    = ElementType{Name: "int32", Size: 4, Signed: true}
	Uint32   = ElementType{Name: "uint32", Size: 4}
	Float32  = ElementType{Name: "float32", Size: 4, Float: true, Signed: true}
	Int64    = ElementType{Name: "int64", Size: 8, Signed: true}
	Uint64   = ElementType{Name: "uint64", Size: 8}
	Float64  = ElementType{Name: "float64", Size: 8, Float: true, Signed: true}
)

var elementTypes = []ElementType{
	Int8, Uint8, Int16, Uint16, Half, BFloat16,
	Int32, Uint32, Float32, Int64, Uint64, Float64,
}

// Aliases accepted by ParseElementType besides the canonical names.
var elementAliases = map[string]ElementType{
	"char":     Int8,
	"uchar":    Uint8,
	"short":    Int16,
	"ushort":   Uint16,
	"float16":  Half,
	"bf16":     BFloat16,
	"int":      Int32,
	"uint":     Uint32,
	"unsigned": Uint32,
	"float":    Float32,
	"long":     Int64,
	"ulong":    Uint64,
	"double":   Float64,
}

// ParseElementType resolves an element type by name.
func ParseElementType(name string) (ElementType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, et := range elementTypes {
		if et.Name == n {
			return et, nil
		}
	}
	if et, ok := elementAliases[n]; ok {
		return et, nil
	}
	return ElementType{}, fmt.Errorf("unknown element type: %q", name)
}

func (e ElementType) String() string {
	if e.Name == "" {
		return fmt.Sprintf("<%d bytes>", e.Size)
	}
	return e.Name
}

// IsZero reports whether the element type was left unset.
func (e ElementType) IsZero() bool {
	return e.Size == 0
}

// CastType returns the unsigned integer type of the same width. Data is
// reinterpreted through it before reaching a primitive, so integer and
// floating element types of equal width share one primitive family.
func CastType(e ElementType) ElementType {
	switch e.Size {
	case 1:
		return Uint8
	case 2:
		return Uint16
	case 4:
		return Uint32
	case 8:
		return Uint64
	default:
		return ElementType{Size: e.Size}
	}
}

// ExpandedType returns the lane type of per-channel messages: 32-bit lanes
// for sub-dword elements, the cast type otherwise.
func ExpandedType(e ElementType) ElementType {
	if e.Size < 4 {
		return Uint32
	}
	return CastType(e)
}
