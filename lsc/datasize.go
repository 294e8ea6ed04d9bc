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
	"math/bits"
	"strings"
)

// DataSize is the width of one element on the wire.
type DataSize uint8

const (
	// DataSizeDefault derives the width from the element type.
	DataSizeDefault DataSize = iota
	U8
	U16
	U32
	U64

	// U8U32 carries 8-bit data zero-extended in 32-bit lanes.
	U8U32

	// U16U32 carries 16-bit data zero-extended in 32-bit lanes.
	U16U32
)

// String returns the lower-case name of the data size.
func (d DataSize) String() string {
	switch d {
	case DataSizeDefault:
		return "default"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U8U32:
		return "u8u32"
	case U16U32:
		return "u16u32"
	default:
		return "unknown"
	}
}

// ParseDataSize is the inverse of DataSize.String.
func ParseDataSize(s string) (DataSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DataSizeDefault, nil
	}
	for d := DataSizeDefault; d <= U16U32; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return DataSizeDefault, fmt.Errorf("unknown data size: %q", s)
}

// Bytes returns the in-memory width of one element, or 0 for
// DataSizeDefault.
func (d DataSize) Bytes() int {
	switch d {
	case U8, U8U32:
		return 1
	case U16, U16U32:
		return 2
	case U32:
		return 4
	case U64:
		return 8
	default:
		return 0
	}
}

// Expand widens sub-dword sizes to their 32-bit lane form. Per-channel
// messages always operate on lanes of at least 32 bits.
func (d DataSize) Expand() DataSize {
	switch d {
	case U8:
		return U8U32
	case U16:
		return U16U32
	default:
		return d
	}
}

func dataSizeForBytes(n int) DataSize {
	switch n {
	case 1:
		return U8
	case 2:
		return U16
	case 4:
		return U32
	case 8:
		return U64
	default:
		return DataSizeDefault
	}
}

// VectorSize is the number of elements a message moves per channel.
//
// VectorSizeInvalid is the sentinel produced for element counts the
// hardware cannot encode; it must never reach a primitive.
type VectorSize uint8

const (
	VectorSizeInvalid VectorSize = iota
	N1
	N2
	N3
	N4
	N8
	N16
	N32
	N64
)

var vectorSizeElements = [...]int{
	VectorSizeInvalid: 0,
	N1:                1,
	N2:                2,
	N3:                3,
	N4:                4,
	N8:                8,
	N16:               16,
	N32:               32,
	N64:               64,
}

// NumElements returns the element count encoded by the vector size, or 0
// for VectorSizeInvalid.
func (v VectorSize) NumElements() int {
	if int(v) < len(vectorSizeElements) {
		return vectorSizeElements[v]
	}
	return 0
}

// Valid reports whether v encodes a legal width.
func (v VectorSize) Valid() bool {
	return v != VectorSizeInvalid && int(v) < len(vectorSizeElements)
}

func (v VectorSize) String() string {
	if !v.Valid() {
		return "n0"
	}
	return fmt.Sprintf("n%d", v.NumElements())
}

// VectorSizeOf maps an explicit element count to its vector size. Counts
// the hardware cannot encode map to VectorSizeInvalid.
func VectorSizeOf(n int) VectorSize {
	for v := N1; v <= N64; v++ {
		if vectorSizeElements[v] == n {
			return v
		}
	}
	return VectorSizeInvalid
}

// ChannelMask enables the R, G, B and A channels of a quad message.
type ChannelMask uint8

const (
	ChannelR ChannelMask = 1 << iota
	ChannelG
	ChannelB
	ChannelA

	ChannelsRG   = ChannelR | ChannelG
	ChannelsRGB  = ChannelR | ChannelG | ChannelB
	ChannelsRGBA = ChannelR | ChannelG | ChannelB | ChannelA
)

// Count returns the number of enabled channels.
func (m ChannelMask) Count() int {
	return bits.OnesCount8(uint8(m & ChannelsRGBA))
}

// Valid reports whether the mask enables at least one channel and no bits
// outside RGBA.
func (m ChannelMask) Valid() bool {
	return m != 0 && m&^ChannelsRGBA == 0
}

// Contiguous reports whether the enabled channels start at R without gaps
// (R, RG, RGB or RGBA).
func (m ChannelMask) Contiguous() bool {
	switch m {
	case ChannelR, ChannelsRG, ChannelsRGB, ChannelsRGBA:
		return true
	default:
		return false
	}
}

func (m ChannelMask) String() string {
	if m == 0 {
		return "none"
	}
	var sb strings.Builder
	for i, c := range "rgba" {
		if m&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// ParseChannelMask accepts channel letters in any order ("rgb", "ra").
func ParseChannelMask(s string) (ChannelMask, error) {
	var m ChannelMask
	for _, c := range strings.ToLower(strings.TrimSpace(s)) {
		switch c {
		case 'r':
			m |= ChannelR
		case 'g':
			m |= ChannelG
		case 'b':
			m |= ChannelB
		case 'a':
			m |= ChannelA
		default:
			return 0, fmt.Errorf("unknown channel %q in mask %q", c, s)
		}
	}
	return m, nil
}
