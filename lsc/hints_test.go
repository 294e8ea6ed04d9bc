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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allKinds  = []OperationKind{OpPrefetch, OpLoad, OpStore, OpAtomic}
	allSpaces = []AddressSpace{SurfaceIndexed, FlatPointer, SharedLocalMemory}
	allHints  = []CacheHint{
		HintDefault, HintUncached, HintCached, HintStreaming,
		HintWriteThrough, HintWriteBack, HintReadInvalidate, HintConstCached,
	}
)

func TestDefaultPairAlwaysValid(t *testing.T) {
	for _, caps := range []Capabilities{NewCapabilities("bare"), MustPlatform("xe2").Capabilities()} {
		for _, k := range allKinds {
			for _, a := range allSpaces {
				assert.True(t, ValidHints(caps, k, a, HintDefault, HintDefault), "%s %s on %s", k, a, caps.Platform())
			}
		}
	}
}

func TestSharedLocalMemoryOnlyDefault(t *testing.T) {
	caps := MustPlatform("xe2").Capabilities()
	for _, k := range allKinds {
		for _, l1 := range allHints {
			for _, l2 := range allHints {
				want := l1 == HintDefault && l2 == HintDefault
				if got := ValidHints(caps, k, SharedLocalMemory, l1, l2); got != want {
					t.Errorf("ValidHints(%s, slm, %s, %s) = %v, want %v", k, l1, l2, got, want)
				}
			}
		}
	}
}

func TestValidHintsRules(t *testing.T) {
	bare := NewCapabilities("bare")
	cc := NewCapabilities("cc", FeatureL1L3CCHint)
	riri := NewCapabilities("riri", FeatureLoadL1RIL3RIHint)
	rica := NewCapabilities("rica", FeatureLoadL1RIL3CAHint)

	tests := []struct {
		name   string
		caps   Capabilities
		kind   OperationKind
		l1, l2 CacheHint
		want   bool
	}{
		{"prefetch uc ca", bare, OpPrefetch, HintUncached, HintCached, true},
		{"prefetch st uc", bare, OpPrefetch, HintStreaming, HintUncached, true},
		{"prefetch uc uc excluded", bare, OpPrefetch, HintUncached, HintUncached, false},
		{"prefetch ca cc without feature", bare, OpPrefetch, HintCached, HintConstCached, false},
		{"prefetch ca cc", cc, OpPrefetch, HintCached, HintConstCached, true},
		{"prefetch wb", bare, OpPrefetch, HintWriteBack, HintWriteBack, false},

		{"load uc uc", bare, OpLoad, HintUncached, HintUncached, true},
		{"load st ca", bare, OpLoad, HintStreaming, HintCached, true},
		{"load ca st", bare, OpLoad, HintCached, HintStreaming, false},
		{"load half default", bare, OpLoad, HintDefault, HintCached, false},
		{"load uc cc without feature", bare, OpLoad, HintUncached, HintConstCached, false},
		{"load uc cc", cc, OpLoad, HintUncached, HintConstCached, true},
		{"load st cc", cc, OpLoad, HintStreaming, HintConstCached, false},
		{"load ri ri without feature", bare, OpLoad, HintReadInvalidate, HintReadInvalidate, false},
		{"load ri ri", riri, OpLoad, HintReadInvalidate, HintReadInvalidate, true},
		{"load ri ca needs its own feature", riri, OpLoad, HintReadInvalidate, HintCached, false},
		{"load ri ca", rica, OpLoad, HintReadInvalidate, HintCached, true},
		{"load wb", bare, OpLoad, HintWriteBack, HintWriteBack, false},

		{"store wb wb", bare, OpStore, HintWriteBack, HintWriteBack, true},
		{"store wt uc", bare, OpStore, HintWriteThrough, HintUncached, true},
		{"store st wb", bare, OpStore, HintStreaming, HintWriteBack, true},
		{"store uc uc", bare, OpStore, HintUncached, HintUncached, true},
		{"store ca ca", bare, OpStore, HintCached, HintCached, false},
		{"store wb uc", bare, OpStore, HintWriteBack, HintUncached, false},
		{"store uc cc", cc, OpStore, HintUncached, HintConstCached, false},
		{"store ri ri", riri, OpStore, HintReadInvalidate, HintReadInvalidate, false},

		{"atomic uc wb", bare, OpAtomic, HintUncached, HintWriteBack, true},
		{"atomic uc uc", bare, OpAtomic, HintUncached, HintUncached, true},
		{"atomic ca ca", bare, OpAtomic, HintCached, HintCached, false},
		{"atomic wb wb", bare, OpAtomic, HintWriteBack, HintWriteBack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range []AddressSpace{SurfaceIndexed, FlatPointer} {
				if got := ValidHints(tt.caps, tt.kind, a, tt.l1, tt.l2); got != tt.want {
					t.Errorf("ValidHints(%s, %s, %s, %s) = %v, want %v", tt.kind, a, tt.l1, tt.l2, got, tt.want)
				}
			}
		})
	}
}

// ConstCached is never a legal store hint, whatever the platform.
func TestStoreNeverConstCached(t *testing.T) {
	caps := NewCapabilities("all", AllFeatures()...)
	for _, l1 := range allHints {
		assert.False(t, ValidHints(caps, OpStore, FlatPointer, l1, HintConstCached), "store (%s, cc)", l1)
		assert.False(t, ValidHints(caps, OpStore, FlatPointer, HintConstCached, l1), "store (cc, %s)", l1)
	}
}

// The duplicate (Uncached, Uncached) pair is excluded for prefetch only;
// a surface load with it stays legal without read-invalidate support.
func TestUncachedPairOnSurface(t *testing.T) {
	caps := MustPlatform("dg2").Capabilities().Without(FeatureLoadL1RIL3CAHint, FeatureLoadL1RIL3RIHint)
	assert.False(t, ValidHints(caps, OpPrefetch, SurfaceIndexed, HintUncached, HintUncached))
	assert.True(t, ValidHints(caps, OpLoad, SurfaceIndexed, HintUncached, HintUncached))
}

func TestAtomicUncachedWriteBack(t *testing.T) {
	for _, a := range []AddressSpace{SurfaceIndexed, FlatPointer} {
		assert.True(t, ValidHints(NewCapabilities("bare"), OpAtomic, a, HintUncached, HintWriteBack))
	}
}

func TestCheckHints(t *testing.T) {
	caps := MustPlatform("pvc").Capabilities()
	require.NoError(t, CheckHints(caps, OpLoad, FlatPointer, HintPair{L1: HintCached, L2: HintCached}))

	err := CheckHints(caps, OpLoad, FlatPointer, HintPair{L1: HintUncached, L2: HintConstCached})
	require.ErrorIs(t, err, ErrInvalidCacheHintPair)
	var hintErr *InvalidCacheHintPairError
	require.True(t, errors.As(err, &hintErr))
	assert.Equal(t, OpLoad, hintErr.Kind)
	assert.Equal(t, FlatPointer, hintErr.Space)
	assert.Equal(t, HintPair{L1: HintUncached, L2: HintConstCached}, hintErr.Hints)
	require.NotNil(t, hintErr.Feature)
	assert.Equal(t, FeatureL1L3CCHint, *hintErr.Feature)
	assert.Contains(t, err.Error(), "l1l3cc-hint")

	err = CheckHints(caps, OpStore, SharedLocalMemory, HintPair{L1: HintWriteBack, L2: HintWriteBack})
	require.ErrorIs(t, err, ErrInvalidCacheHintPair)
	require.True(t, errors.As(err, &hintErr))
	assert.Nil(t, hintErr.Feature)
	assert.Contains(t, err.Error(), "slm")
}
