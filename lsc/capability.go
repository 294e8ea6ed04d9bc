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

	"github.com/bits-and-blooms/bitset"
	"github.com/samber/lo"
)

// Feature identifies one entry of the platform capability table.
type Feature uint

const (
	// FeatureLSC enables the load/store/cache message family.
	FeatureLSC Feature = iota

	// FeatureLSCUntyped2D enables untyped 2D block transfers on flat
	// surfaces.
	FeatureLSCUntyped2D

	// FeatureLSCTyped enables typed surface quad messages.
	FeatureLSCTyped

	// FeatureLSCTyped2D enables 2D block transfers on typed surfaces.
	FeatureLSCTyped2D

	// FeatureSystemFence enables system-scope fences.
	FeatureSystemFence

	// FeatureL1L2CCHint enables the L1/L2 constant-cache hint encoding.
	FeatureL1L2CCHint

	// FeatureL1L3CCHint enables (uncached|cached, constcached) hints on
	// loads and prefetches.
	FeatureL1L3CCHint

	// FeatureLoadL1RIL3RIHint enables the (readinvalidate, readinvalidate)
	// load hint.
	FeatureLoadL1RIL3RIHint

	// FeatureLoadL1RIL3CAHint enables the (readinvalidate, cached) load hint.
	FeatureLoadL1RIL3CAHint

	// FeatureSLMAtomicInt64 enables 64-bit atomics on shared local memory.
	FeatureSLMAtomicInt64

	// FeatureNonDefaultSIMTVectors allows per-channel messages with a
	// channel count other than the default SIMT width to move more than
	// one element per channel.
	FeatureNonDefaultSIMTVectors

	// The remaining flags describe arithmetic and legacy instructions.
	// They are part of the table so every platform switch lives in one
	// place, but no memory primitive requires them.
	FeatureBF16
	FeatureTF32
	FeatureDP4A
	FeatureBFN
	FeatureBitRotate
	FeatureBitRotate64
	FeatureIEEEDivSqrt
	FeatureGatewayEvent
	FeatureSampleUnorm
	FeatureTypedAtomic

	numFeatures
)

var featureNames = [numFeatures]string{
	FeatureLSC:                   "lsc",
	FeatureLSCUntyped2D:          "lsc-untyped-2d",
	FeatureLSCTyped:              "lsc-typed",
	FeatureLSCTyped2D:            "lsc-typed-2d",
	FeatureSystemFence:           "lsc-sys-fence",
	FeatureL1L2CCHint:            "l1l2cc-hint",
	FeatureL1L3CCHint:            "l1l3cc-hint",
	FeatureLoadL1RIL3RIHint:      "load-l1ri-l3ri-hint",
	FeatureLoadL1RIL3CAHint:      "load-l1ri-l3ca-hint",
	FeatureSLMAtomicInt64:        "slm-atomic-int64",
	FeatureNonDefaultSIMTVectors: "lsc-nondefault-simt-vectors",
	FeatureBF16:                  "bf16",
	FeatureTF32:                  "tf32",
	FeatureDP4A:                  "dp4a",
	FeatureBFN:                   "bfn",
	FeatureBitRotate:             "bit-rotate",
	FeatureBitRotate64:           "bit-rotate-64",
	FeatureIEEEDivSqrt:           "ieee-div-sqrt",
	FeatureGatewayEvent:          "gateway-event",
	FeatureSampleUnorm:           "sample-unorm",
	FeatureTypedAtomic:           "typed-atomic",
}

// String returns the feature identifier ("lsc-untyped-2d").
func (f Feature) String() string {
	if f < numFeatures {
		return featureNames[f]
	}
	return fmt.Sprintf("feature(%d)", uint(f))
}

// ParseFeature resolves a feature identifier.
func ParseFeature(s string) (Feature, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range featureNames {
		if name == s {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature: %q", s)
}

// AllFeatures returns every feature of the table in identifier order.
func AllFeatures() []Feature {
	return lo.Times(int(numFeatures), func(i int) Feature { return Feature(i) })
}

// Capabilities is the immutable feature table of one platform.
//
// The zero value has no features. Values are safe for concurrent use;
// With and Without return modified copies.
type Capabilities struct {
	platform string
	bits     *bitset.BitSet
}

// NewCapabilities builds the table for a platform from its feature list.
func NewCapabilities(platform string, features ...Feature) Capabilities {
	b := bitset.New(uint(numFeatures))
	for _, f := range features {
		b.Set(uint(f))
	}
	return Capabilities{platform: platform, bits: b}
}

// Platform returns the name of the platform the table was resolved for.
func (c Capabilities) Platform() string {
	if c.platform == "" {
		return "none"
	}
	return c.platform
}

// Has reports whether the feature is present.
func (c Capabilities) Has(f Feature) bool {
	return c.bits != nil && c.bits.Test(uint(f))
}

// Require is the capability gate: it fails with an UnsupportedFeatureError
// naming the feature, the platform and op when the feature is absent.
func (c Capabilities) Require(f Feature, op string) error {
	if c.Has(f) {
		return nil
	}
	return &UnsupportedFeatureError{Feature: f, Platform: c.Platform(), Op: op}
}

// RequireAll gates a set of features, failing on the first absent one.
func (c Capabilities) RequireAll(features []Feature, op string) error {
	for _, f := range features {
		if err := c.Require(f, op); err != nil {
			return err
		}
	}
	return nil
}

// Features lists the present features in identifier order.
func (c Capabilities) Features() []Feature {
	if c.bits == nil {
		return nil
	}
	var out []Feature
	for i, ok := c.bits.NextSet(0); ok; i, ok = c.bits.NextSet(i + 1) {
		out = append(out, Feature(i))
	}
	return out
}

// Len returns the number of present features.
func (c Capabilities) Len() int {
	if c.bits == nil {
		return 0
	}
	return int(c.bits.Count())
}

// With returns a copy of c with the given features added.
func (c Capabilities) With(features ...Feature) Capabilities {
	b := c.clone()
	for _, f := range features {
		b.Set(uint(f))
	}
	return Capabilities{platform: c.platform, bits: b}
}

// Without returns a copy of c with the given features removed.
func (c Capabilities) Without(features ...Feature) Capabilities {
	b := c.clone()
	for _, f := range features {
		b.Clear(uint(f))
	}
	return Capabilities{platform: c.platform, bits: b}
}

// Equal reports whether both tables hold the same features.
func (c Capabilities) Equal(o Capabilities) bool {
	return c.clone().Equal(o.clone())
}

func (c Capabilities) clone() *bitset.BitSet {
	if c.bits == nil {
		return bitset.New(uint(numFeatures))
	}
	return c.bits.Clone()
}

// String renders the table as "platform[f1,f2,...]".
func (c Capabilities) String() string {
	names := lo.Map(c.Features(), func(f Feature, _ int) string { return f.String() })
	return c.Platform() + "[" + strings.Join(names, ",") + "]"
}
