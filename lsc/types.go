// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lsc

import (
	"fmt"
	"strings"
)

// CacheHint selects the policy a memory message applies at one cache level.
type CacheHint uint8

const (
	// HintDefault leaves the policy to the platform.
	HintDefault CacheHint = iota

	// HintUncached bypasses the cache level.
	HintUncached

	// HintCached allocates in the cache level.
	HintCached

	// HintStreaming allocates with streaming (evict-first) priority.
	HintStreaming

	// HintWriteThrough writes through the cache level.
	HintWriteThrough

	// HintWriteBack writes back from the cache level.
	HintWriteBack

	// HintReadInvalidate reads and invalidates the line afterwards.
	HintReadInvalidate

	// HintConstCached caches in the constant cache.
	HintConstCached
)

var cacheHintNames = [...]string{
	HintDefault:        "default",
	HintUncached:       "uncached",
	HintCached:         "cached",
	HintStreaming:      "streaming",
	HintWriteThrough:   "writethrough",
	HintWriteBack:      "writeback",
	HintReadInvalidate: "readinvalidate",
	HintConstCached:    "constcached",
}

// Short mnemonics used by hardware documentation.
var cacheHintMnemonics = map[string]CacheHint{
	"df": HintDefault,
	"uc": HintUncached,
	"ca": HintCached,
	"st": HintStreaming,
	"wt": HintWriteThrough,
	"wb": HintWriteBack,
	"ri": HintReadInvalidate,
	"cc": HintConstCached,
}

// String returns the lower-case name of the hint.
func (h CacheHint) String() string {
	if int(h) < len(cacheHintNames) {
		return cacheHintNames[h]
	}
	return fmt.Sprintf("CacheHint(%d)", uint8(h))
}

// ParseCacheHint accepts either the full name ("writeback") or the
// two-letter mnemonic ("wb"). The empty string is HintDefault.
func ParseCacheHint(s string) (CacheHint, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return HintDefault, nil
	}
	for i, name := range cacheHintNames {
		if name == s {
			return CacheHint(i), nil
		}
	}
	if h, ok := cacheHintMnemonics[s]; ok {
		return h, nil
	}
	return HintDefault, fmt.Errorf("unknown cache hint: %q", s)
}

// HintPair is the (L1, L2) cache hint combination of one request.
type HintPair struct {
	L1 CacheHint
	L2 CacheHint
}

// IsDefault reports whether both levels use HintDefault.
func (p HintPair) IsDefault() bool {
	return p.L1 == HintDefault && p.L2 == HintDefault
}

func (p HintPair) String() string {
	return "(" + p.L1.String() + ", " + p.L2.String() + ")"
}

// OperationKind is the memory operation a request performs.
type OperationKind uint8

const (
	OpPrefetch OperationKind = iota
	OpLoad
	OpStore
	OpAtomic
)

// String returns a human-readable name for the operation.
func (k OperationKind) String() string {
	switch k {
	case OpPrefetch:
		return "prefetch"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}

// ParseOperationKind is the inverse of OperationKind.String.
func ParseOperationKind(s string) (OperationKind, error) {
	for _, k := range []OperationKind{OpPrefetch, OpLoad, OpStore, OpAtomic} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown operation: %q (valid: prefetch, load, store, atomic)", s)
}

// AddressSpace selects how a request addresses memory.
type AddressSpace uint8

const (
	// SurfaceIndexed addresses a bound memory object through its
	// binding table index.
	SurfaceIndexed AddressSpace = iota

	// FlatPointer addresses memory by virtual address.
	FlatPointer

	// SharedLocalMemory addresses work-group local scratch memory.
	// It has no configurable cache policy.
	SharedLocalMemory
)

// String returns the short name used in primitive names ("bti", "flat", "slm").
func (a AddressSpace) String() string {
	switch a {
	case SurfaceIndexed:
		return "bti"
	case FlatPointer:
		return "flat"
	case SharedLocalMemory:
		return "slm"
	default:
		return "unknown"
	}
}

// ParseAddressSpace accepts the short names and a few long aliases.
func ParseAddressSpace(s string) (AddressSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bti", "surface", "surface-indexed":
		return SurfaceIndexed, nil
	case "flat", "ptr", "flat-pointer":
		return FlatPointer, nil
	case "slm", "shared-local-memory":
		return SharedLocalMemory, nil
	}
	return 0, fmt.Errorf("unknown address space: %q (valid: bti, flat, slm)", s)
}

// ShapeKind is the message shape family of a request.
type ShapeKind uint8

const (
	// ShapeScalar is a per-channel (gather/scatter) message: each of the N
	// channels carries its own offset and VectorSize elements.
	ShapeScalar ShapeKind = iota

	// ShapeBlock is a 1D block message. The hardware executes it as a
	// transposed single-channel message.
	ShapeBlock

	// ShapeBlock2D is an untyped 2D block transfer on a flat surface.
	// The message is not transposed; the transfer itself may be
	// transposed or transformed through BlockShape.
	ShapeBlock2D

	// ShapeQuad is a per-channel message whose vector is selected by a
	// channel mask.
	ShapeQuad

	// ShapeTyped2D is a 2D block transfer on a typed surface.
	ShapeTyped2D

	// ShapeTypedQuad is a channel-mask message on a typed surface.
	ShapeTypedQuad
)

// String returns a human-readable name for the shape kind.
func (s ShapeKind) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeBlock:
		return "block"
	case ShapeBlock2D:
		return "block2d"
	case ShapeQuad:
		return "quad"
	case ShapeTyped2D:
		return "typed2d"
	case ShapeTypedQuad:
		return "typed-quad"
	default:
		return "unknown"
	}
}

// ParseShapeKind is the inverse of ShapeKind.String.
func ParseShapeKind(s string) (ShapeKind, error) {
	for k := ShapeScalar; k <= ShapeTypedQuad; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shape: %q (valid: scalar, block, block2d, quad, typed2d, typed-quad)", s)
}

// transposedMessage reports whether the hardware message for the shape is
// a transposed (single channel, contiguous) message.
func (s ShapeKind) transposedMessage() bool {
	return s == ShapeBlock
}
