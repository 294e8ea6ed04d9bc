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

import "github.com/samber/lo"

// ValidHints reports whether the (l1, l2) cache hint pair is legal for an
// operation of the given kind on the given address space under caps.
//
// The base rule depends only on the operation kind and the hint-related
// capability flags. Shared local memory has no configurable cache policy,
// so on that address space every kind accepts only (Default, Default).
func ValidHints(caps Capabilities, kind OperationKind, space AddressSpace, l1, l2 CacheHint) bool {
	bothDefault := l1 == HintDefault && l2 == HintDefault
	if space == SharedLocalMemory {
		return bothDefault
	}
	if bothDefault {
		return true
	}

	switch kind {
	case OpPrefetch:
		if lo.Contains([]CacheHint{HintUncached, HintCached, HintStreaming}, l1) &&
			lo.Contains([]CacheHint{HintUncached, HintCached}, l2) &&
			!(l1 == HintUncached && l2 == HintUncached) {
			return true
		}
		return constCachedPair(caps, l1, l2)

	case OpLoad:
		if lo.Contains([]CacheHint{HintUncached, HintCached, HintStreaming}, l1) &&
			lo.Contains([]CacheHint{HintUncached, HintCached}, l2) {
			return true
		}
		if constCachedPair(caps, l1, l2) {
			return true
		}
		if caps.Has(FeatureLoadL1RIL3RIHint) && l1 == HintReadInvalidate && l2 == HintReadInvalidate {
			return true
		}
		return caps.Has(FeatureLoadL1RIL3CAHint) && l1 == HintReadInvalidate && l2 == HintCached

	case OpStore:
		if l1 == HintWriteBack && l2 == HintWriteBack {
			return true
		}
		return lo.Contains([]CacheHint{HintUncached, HintWriteThrough, HintStreaming}, l1) &&
			lo.Contains([]CacheHint{HintUncached, HintWriteBack}, l2)

	case OpAtomic:
		return l1 == HintUncached && (l2 == HintUncached || l2 == HintWriteBack)
	}
	return false
}

// (Uncached|Cached, ConstCached) exists only on platforms with the L1/L3
// constant-cache hint.
func constCachedPair(caps Capabilities, l1, l2 CacheHint) bool {
	return caps.Has(FeatureL1L3CCHint) &&
		(l1 == HintUncached || l1 == HintCached) && l2 == HintConstCached
}

// hintFeatures are the capability flags that extend the base hint rules.
var hintFeatures = []Feature{FeatureL1L3CCHint, FeatureLoadL1RIL3RIHint, FeatureLoadL1RIL3CAHint}

// CheckHints is ValidHints returning an *InvalidCacheHintPairError instead
// of false. When the pair would be legal with one more hint feature, the
// error names it.
func CheckHints(caps Capabilities, kind OperationKind, space AddressSpace, hints HintPair) error {
	if ValidHints(caps, kind, space, hints.L1, hints.L2) {
		return nil
	}
	err := &InvalidCacheHintPairError{Kind: kind, Space: space, Hints: hints}
	for _, f := range hintFeatures {
		if caps.Has(f) {
			continue
		}
		if ValidHints(caps.With(f), kind, space, hints.L1, hints.L2) {
			err.Feature = &f
			break
		}
	}
	return err
}
