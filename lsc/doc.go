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

// Package lsc translates logical load/store/cache (LSC) memory-access
// requests into invocations of a fixed set of GPU message primitives.
//
// A request names an operation (prefetch, load, store, atomic), an address
// space (surface index, flat pointer, shared local memory), a shape
// (per-channel, 1D block, 2D block, quad, typed) and a pair of L1/L2 cache
// hints. Translation runs four pure stages in order:
//
//  1. the capability gate rejects requests the target platform cannot run;
//  2. the cache hint validator rejects illegal hint pairs;
//  3. the shape resolver computes message widths and padded 2D layouts;
//  4. the dispatcher selects exactly one primitive.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-lsc/lsc"
//
//	tr := lsc.NewTranslator(lsc.MustPlatform("pvc"))
//	res, err := tr.Translate(lsc.Request{
//		Kind:    lsc.OpLoad,
//		Space:   lsc.FlatPointer,
//		Shape:   lsc.ShapeBlock2D,
//		Element: lsc.Float32,
//		Block:   lsc.BlockShape{Width: 5, Height: 4, NumBlocks: 1},
//	})
//	if err != nil {
//		// translation-time diagnostic, never retried
//	}
//	fmt.Println(res.Invocation.Primitive, res.Layout.NeedsDepad())
//
// Translation never blocks and keeps no state between calls, so
// independent call sites may be translated concurrently.
package lsc
