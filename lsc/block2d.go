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

import "math/bits"

// burstBytes is the hardware burst unit of 2D block transfers.
const burstBytes = 64

// BlockShape describes a 2D block transfer.
type BlockShape struct {
	Width, Height int // block size in elements
	NumBlocks     int // horizontally adjacent blocks; 0 means 1
	Transposed    bool
	Transformed   bool // VNNI packing of sub-dword elements
}

func (b BlockShape) numBlocks() int {
	if b.NumBlocks == 0 {
		return 1
	}
	return b.NumBlocks
}

// PaddedLayout is the register layout of a 2D block transfer.
type PaddedLayout struct {
	ElementSize      int
	RowWidth         int // meaningful elements per row
	RowPitch         int // elements per row in registers, a power of two
	RowCount         int
	NumBlocks        int
	BlockElements    int // RowPitch * RowCount
	BurstGranularity int // elements per 64-byte burst
	BlockPitch       int // BlockElements rounded up to BurstGranularity
	TotalPadded      int
	TotalLogical     int
}

// NeedsDepad reports whether the padded transfer carries garbage elements
// the caller must strip.
func (l PaddedLayout) NeedsDepad() bool {
	return l.TotalPadded != l.TotalLogical
}

// ResolveBlockShape computes the padded layout of a 2D block transfer of
// elemSize-byte elements. It is a pure function of its inputs.
func ResolveBlockShape(elemSize int, b BlockShape) (PaddedLayout, error) {
	switch elemSize {
	case 1, 2, 4, 8:
	default:
		return PaddedLayout{}, shapeErrorf("ElementSize", elemSize, "must be 1, 2, 4 or 8 bytes")
	}
	if b.Width <= 0 {
		return PaddedLayout{}, shapeErrorf("Width", b.Width, "must be positive")
	}
	if b.Height <= 0 {
		return PaddedLayout{}, shapeErrorf("Height", b.Height, "must be positive")
	}
	if b.NumBlocks < 0 {
		return PaddedLayout{}, shapeErrorf("NumBlocks", b.NumBlocks, "must be positive")
	}
	if b.Transposed && b.Transformed {
		return PaddedLayout{}, shapeErrorf("Transformed", true, "transposed and transformed is not supported")
	}
	nblk := b.numBlocks()
	if b.Transposed && nblk > 1 {
		return PaddedLayout{}, shapeErrorf("NumBlocks", nblk, "transposed expected to be 1 block only")
	}
	if b.Transformed && elemSize > 4 {
		return PaddedLayout{}, shapeErrorf("Transformed", true, "%d-byte elements cannot be packed into dwords", elemSize)
	}

	vnni := 4 / elemSize // lanes per dword; only used when transformed
	var width, rows int
	switch {
	case b.Transposed:
		width, rows = b.Height, b.Width
	case b.Transformed:
		width, rows = b.Width*vnni, ceilDiv(b.Height, vnni)
	default:
		width, rows = b.Width, b.Height
	}

	pitch := nextPowerOfTwo(width)
	blockElems := pitch * rows
	burst := burstBytes / elemSize
	blockPitch := roundUp(blockElems, burst)
	return PaddedLayout{
		ElementSize:      elemSize,
		RowWidth:         width,
		RowPitch:         pitch,
		RowCount:         rows,
		NumBlocks:        nblk,
		BlockElements:    blockElems,
		BurstGranularity: burst,
		BlockPitch:       blockPitch,
		TotalPadded:      blockPitch * nblk,
		TotalLogical:     width * rows * nblk,
	}, nil
}

// CheckElementCount verifies that a caller-sized buffer of n elements
// matches either the padded or the de-padded layout.
func (l PaddedLayout) CheckElementCount(n int) error {
	if n == l.TotalPadded || n == l.TotalLogical {
		return nil
	}
	return &ElementCountError{Got: n, Padded: l.TotalPadded, Logical: l.TotalLogical}
}

// Extraction describes the de-padding pass of one transfer: each block
// starts at BlockOffset(i) in the padded buffer and holds Rows rows of
// Pitch elements, of which the leading Width are kept.
type Extraction struct {
	Blocks     int
	BlockPitch int // padded elements between block starts
	Rows       int
	Pitch      int
	Width      int
}

// Extraction returns the de-padding descriptor, or nil when the layout is
// already dense.
func (l PaddedLayout) Extraction() *Extraction {
	if !l.NeedsDepad() {
		return nil
	}
	return &Extraction{
		Blocks:     l.NumBlocks,
		BlockPitch: l.BlockPitch,
		Rows:       l.RowCount,
		Pitch:      l.RowPitch,
		Width:      l.RowWidth,
	}
}

// BlockOffset returns the index of block i's first element in the padded
// buffer.
func (x *Extraction) BlockOffset(i int) int { return i * x.BlockPitch }

// Depad strips the padding of a transfer. raw must hold TotalPadded
// elements; a raw buffer that is already dense is returned as is.
func Depad[T any](l PaddedLayout, raw []T) ([]T, error) {
	if len(raw) == l.TotalLogical {
		return raw, nil
	}
	if len(raw) != l.TotalPadded {
		return nil, &ElementCountError{Got: len(raw), Padded: l.TotalPadded, Logical: l.TotalLogical}
	}
	dst := make([]T, 0, l.TotalLogical)
	for b := 0; b < l.NumBlocks; b++ {
		block := raw[b*l.BlockPitch:]
		for r := 0; r < l.RowCount; r++ {
			dst = append(dst, block[r*l.RowPitch:r*l.RowPitch+l.RowWidth]...)
		}
	}
	return dst, nil
}

// StoreLayout returns the register layout of a 2D block store: a single
// Height x nextPowerOfTwo(Width) matrix with no burst rounding.
func StoreLayout(elemSize int, b BlockShape) (PaddedLayout, error) {
	if b.Transposed || b.Transformed {
		return PaddedLayout{}, shapeErrorf("Transposed", true, "2D block stores are never transposed or transformed")
	}
	if b.numBlocks() != 1 {
		return PaddedLayout{}, shapeErrorf("NumBlocks", b.NumBlocks, "2D block stores move one block")
	}
	l, err := ResolveBlockShape(elemSize, b)
	if err != nil {
		return PaddedLayout{}, err
	}
	l.BlockPitch = l.BlockElements
	l.TotalPadded = l.BlockElements
	return l, nil
}

// Pad expands rows of data (Height x Width, row-major) into the store
// layout. Data that already has the padded size is copied unchanged.
func Pad[T any](l PaddedLayout, data []T) ([]T, error) {
	if err := l.CheckElementCount(len(data)); err != nil {
		return nil, err
	}
	raw := make([]T, l.TotalPadded)
	if len(data) == l.TotalPadded {
		copy(raw, data)
		return raw, nil
	}
	for b := 0; b < l.NumBlocks; b++ {
		src := data[b*l.RowWidth*l.RowCount:]
		dst := raw[b*l.BlockPitch:]
		for r := 0; r < l.RowCount; r++ {
			copy(dst[r*l.RowPitch:], src[r*l.RowWidth:(r+1)*l.RowWidth])
		}
	}
	return raw, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func roundUp(n, m int) int { return ceilDiv(n, m) * m }

// denseLayout is the layout of typed 2D surface transfers, which move a
// Height x Width matrix without padding.
func denseLayout(elemSize int, b BlockShape) (PaddedLayout, error) {
	switch {
	case b.Width <= 0:
		return PaddedLayout{}, shapeErrorf("Width", b.Width, "must be positive")
	case b.Height <= 0:
		return PaddedLayout{}, shapeErrorf("Height", b.Height, "must be positive")
	case b.Transposed || b.Transformed:
		return PaddedLayout{}, shapeErrorf("Transposed", true, "typed 2D transfers are never transposed or transformed")
	case b.numBlocks() != 1:
		return PaddedLayout{}, shapeErrorf("NumBlocks", b.NumBlocks, "typed 2D transfers move one block")
	}
	n := b.Width * b.Height
	return PaddedLayout{
		ElementSize:      elemSize,
		RowWidth:         b.Width,
		RowPitch:         b.Width,
		RowCount:         b.Height,
		NumBlocks:        1,
		BlockElements:    n,
		BurstGranularity: 1,
		BlockPitch:       n,
		TotalPadded:      n,
		TotalLogical:     n,
	}, nil
}
