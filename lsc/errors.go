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
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package matches exactly one
// of them with errors.Is; the typed errors below carry the details.
var (
	// ErrUnsupportedFeature is returned when a required platform feature is absent.
	ErrUnsupportedFeature = errors.New("lsc: unsupported feature")

	// ErrInvalidCacheHintPair is returned for an illegal (L1, L2) hint combination.
	ErrInvalidCacheHintPair = errors.New("lsc: invalid cache hint pair")

	// ErrInvalidShapeConfiguration is returned for an illegal shape, element
	// size, vector size or channel mask.
	ErrInvalidShapeConfiguration = errors.New("lsc: invalid shape configuration")

	// ErrInvalidElementCount is returned when data length matches neither the
	// padded nor the logical layout.
	ErrInvalidElementCount = errors.New("lsc: incorrect element count")

	// ErrInvalidOperand is returned for malformed atomic or fence operands.
	ErrInvalidOperand = errors.New("lsc: invalid operand")

	// ErrNoPrimitive is returned when no primitive exists for a request that
	// passed validation. It indicates a bug in the primitive table.
	ErrNoPrimitive = errors.New("lsc: no primitive")
)

// UnsupportedFeatureError names the missing feature.
type UnsupportedFeatureError struct {
	Feature  Feature
	Platform string
	Op       string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("lsc: feature %s is not supported on %s", e.Feature, e.Platform)
	}
	return fmt.Sprintf("lsc: %s requires feature %s, not supported on %s", e.Op, e.Feature, e.Platform)
}

func (e *UnsupportedFeatureError) Is(target error) bool { return target == ErrUnsupportedFeature }

// InvalidCacheHintPairError reports a rejected hint pair.
type InvalidCacheHintPairError struct {
	Kind  OperationKind
	Space AddressSpace
	Hints HintPair
	// Feature is set when the pair would be legal on a platform with it.
	Feature *Feature
}

func (e *InvalidCacheHintPairError) Error() string {
	msg := fmt.Sprintf("lsc: invalid cache hint pair %s for %s on %s", e.Hints, e.Kind, e.Space)
	if e.Feature != nil {
		msg += fmt.Sprintf(" (requires %s)", *e.Feature)
	}
	return msg
}

func (e *InvalidCacheHintPairError) Is(target error) bool { return target == ErrInvalidCacheHintPair }

// ShapeError reports an illegal shape parameter.
type ShapeError struct {
	Field  string // "Width", "DataSize", "VectorSize", ...
	Value  any
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("lsc: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrInvalidShapeConfiguration }

func shapeErrorf(field string, value any, format string, args ...any) error {
	return &ShapeError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

// ElementCountError reports a data length matching neither layout.
type ElementCountError struct {
	Got     int
	Padded  int
	Logical int
}

func (e *ElementCountError) Error() string {
	return fmt.Sprintf("lsc: incorrect element count %d (want %d padded or %d logical)", e.Got, e.Padded, e.Logical)
}

func (e *ElementCountError) Is(target error) bool { return target == ErrInvalidElementCount }

// OperandError reports a malformed atomic or fence operand.
type OperandError struct {
	Op     string
	Reason string
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("lsc: invalid operand for %s: %s", e.Op, e.Reason)
}

func (e *OperandError) Is(target error) bool { return target == ErrInvalidOperand }

// noPrimitiveError is wrapped around ErrNoPrimitive with the lookup key.
func noPrimitiveError(key PrimitiveKey) error {
	return fmt.Errorf("%w for %s", ErrNoPrimitive, key)
}

// VectorSizeError reports a per-channel width the hardware cannot encode.
type VectorSizeError struct {
	Elements int // requested explicit count, 0 when only a VectorSize was given
	Size     VectorSize
	Reason   string
}

func (e *VectorSizeError) Error() string {
	if e.Elements != 0 {
		return fmt.Sprintf("lsc: invalid element count %d: %s", e.Elements, e.Reason)
	}
	return fmt.Sprintf("lsc: invalid vector size %s: %s", e.Size, e.Reason)
}

func (e *VectorSizeError) Is(target error) bool { return target == ErrInvalidElementCount }
