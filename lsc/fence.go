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

// FenceSFID selects the shared function a fence orders.
type FenceSFID uint8

const (
	FenceUGM  FenceSFID = iota // untyped global memory
	FenceUGML                  // untyped global memory, low bandwidth
	FenceTGM                   // typed global memory
	FenceSLM                   // shared local memory
)

// FenceOp is the cache operation performed by a fence.
type FenceOp uint8

const (
	FenceOpNone FenceOp = iota
	FenceOpEvict
	FenceOpInvalidate
	FenceOpDiscard
	FenceOpClean
	FenceOpFlushL3
)

// FenceScope is the set of agents a fence makes writes visible to.
type FenceScope uint8

const (
	ScopeGroup FenceScope = iota
	ScopeLocal
	ScopeTile
	ScopeGPU
	ScopeGPUs
	ScopeSystem
	ScopeSysAcq
)

var (
	sfidNames    = []string{"ugm", "ugml", "tgm", "slm"}
	fenceOpNames = []string{"none", "evict", "invalidate", "discard", "clean", "flushl3"}
	scopeNames   = []string{"group", "local", "tile", "gpu", "gpus", "system", "sysacq"}
)

func enumName(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func parseEnum(names []string, s, kind string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fence %s: %q", kind, s)
}

func (s FenceSFID) String() string  { return enumName(sfidNames, uint8(s), "FenceSFID") }
func (o FenceOp) String() string    { return enumName(fenceOpNames, uint8(o), "FenceOp") }
func (s FenceScope) String() string { return enumName(scopeNames, uint8(s), "FenceScope") }

// ParseFenceSFID is the inverse of FenceSFID.String.
func ParseFenceSFID(s string) (FenceSFID, error) {
	v, err := parseEnum(sfidNames, s, "sfid")
	return FenceSFID(v), err
}

// ParseFenceOp is the inverse of FenceOp.String.
func ParseFenceOp(s string) (FenceOp, error) {
	v, err := parseEnum(fenceOpNames, s, "op")
	return FenceOp(v), err
}

// ParseFenceScope is the inverse of FenceScope.String.
func ParseFenceScope(s string) (FenceScope, error) {
	v, err := parseEnum(scopeNames, s, "scope")
	return FenceScope(v), err
}

// FenceRequest describes a memory fence. The zero value is a group-scope
// fence on untyped global memory with no cache operation.
type FenceRequest struct {
	SFID     FenceSFID
	Op       FenceOp
	Scope    FenceScope
	Channels int // predicate width; 0 selects the platform default SIMT
}

func (f FenceRequest) String() string {
	return fmt.Sprintf("fence(%s, %s, %s)", f.SFID, f.Op, f.Scope)
}

// requiredFeatures lists what a fence needs from the platform.
func (f FenceRequest) requiredFeatures() []Feature {
	if f.Scope == ScopeSystem || f.Scope == ScopeSysAcq {
		return []Feature{FeatureLSC, FeatureSystemFence}
	}
	return []Feature{FeatureLSC}
}

func (f FenceRequest) validate() error {
	switch {
	case int(f.SFID) >= len(sfidNames):
		return &OperandError{Op: "fence", Reason: fmt.Sprintf("unknown shared function %s", f.SFID)}
	case int(f.Op) >= len(fenceOpNames):
		return &OperandError{Op: "fence", Reason: fmt.Sprintf("unknown fence operation %s", f.Op)}
	case int(f.Scope) >= len(scopeNames):
		return &OperandError{Op: "fence", Reason: fmt.Sprintf("unknown scope %s", f.Scope)}
	case f.Channels < 0 || f.Channels > maxSIMT:
		return &OperandError{Op: "fence", Reason: fmt.Sprintf("predicate width %d out of range", f.Channels)}
	}
	return nil
}
