package lsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCacheHint(t *testing.T) {
	tests := map[string]CacheHint{
		"":                HintDefault,
		"df":              HintDefault,
		"uc":              HintUncached,
		"Cached":          HintCached,
		"st":              HintStreaming,
		"writethrough":    HintWriteThrough,
		"WB":              HintWriteBack,
		"ri":              HintReadInvalidate,
		"constcached":     HintConstCached,
		" readinvalidate": HintReadInvalidate,
	}
	for in, want := range tests {
		got, err := ParseCacheHint(in)
		require.NoError(t, err, "ParseCacheHint(%q)", in)
		if got != want {
			t.Errorf("ParseCacheHint(%q) = %s, want %s", in, got, want)
		}
	}
	_, err := ParseCacheHint("l3")
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	for _, k := range allKinds {
		got, err := ParseOperationKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for _, s := range []ShapeKind{ShapeScalar, ShapeBlock, ShapeBlock2D, ShapeQuad, ShapeTyped2D, ShapeTypedQuad} {
		got, err := ParseShapeKind(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	for in, want := range map[string]AddressSpace{"bti": SurfaceIndexed, "surface": SurfaceIndexed, "ptr": FlatPointer, "SLM": SharedLocalMemory} {
		got, err := ParseAddressSpace(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOperationKind("gather")
	assert.Error(t, err)
	_, err = ParseShapeKind("3d")
	assert.Error(t, err)
	_, err = ParseAddressSpace("stack")
	assert.Error(t, err)
	assert.Equal(t, "(uncached, writeback)", HintPair{L1: HintUncached, L2: HintWriteBack}.String())
	assert.True(t, HintPair{}.IsDefault())
}

func TestDataSize(t *testing.T) {
	tests := []struct {
		ds     DataSize
		bytes  int
		expand DataSize
	}{
		{DataSizeDefault, 0, DataSizeDefault},
		{U8, 1, U8U32},
		{U16, 2, U16U32},
		{U32, 4, U32},
		{U64, 8, U64},
		{U8U32, 1, U8U32},
		{U16U32, 2, U16U32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bytes, tt.ds.Bytes(), "%s.Bytes()", tt.ds)
		assert.Equal(t, tt.expand, tt.ds.Expand(), "%s.Expand()", tt.ds)
		got, err := ParseDataSize(tt.ds.String())
		require.NoError(t, err)
		assert.Equal(t, tt.ds, got)
	}
	_, err := ParseDataSize("u128")
	assert.Error(t, err)
}

func TestVectorSize(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 8, 16, 32, 64} {
		vs := VectorSizeOf(n)
		require.True(t, vs.Valid(), "VectorSizeOf(%d)", n)
		assert.Equal(t, n, vs.NumElements())
	}
	for _, n := range []int{0, 5, 6, 7, 12, 128, -1} {
		assert.Equal(t, VectorSizeInvalid, VectorSizeOf(n), "VectorSizeOf(%d)", n)
	}
	assert.False(t, VectorSizeInvalid.Valid())
	assert.Equal(t, 0, VectorSizeInvalid.NumElements())
	assert.Equal(t, "n0", VectorSizeInvalid.String())
	assert.Equal(t, "n16", N16.String())
}

func TestChannelMask(t *testing.T) {
	m, err := ParseChannelMask("rba")
	require.NoError(t, err)
	assert.Equal(t, ChannelR|ChannelB|ChannelA, m)
	assert.Equal(t, 3, m.Count())
	assert.False(t, m.Contiguous())
	assert.True(t, ChannelsRGB.Contiguous())
	assert.Equal(t, "rgba", ChannelsRGBA.String())
	assert.False(t, ChannelMask(0).Valid())
	assert.False(t, ChannelMask(0x10).Valid())
	_, err = ParseChannelMask("rgbx")
	assert.Error(t, err)
}

func TestElementTypes(t *testing.T) {
	for in, want := range map[string]ElementType{"float": Float32, "bf16": BFloat16, "ulong": Uint64, "int8": Int8} {
		got, err := ParseElementType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseElementType("complex64")
	assert.Error(t, err)

	// Casting depends on width only.
	assert.Equal(t, Uint16, CastType(Half))
	assert.Equal(t, Uint16, CastType(Int16))
	assert.Equal(t, Uint64, CastType(Float64))
	assert.Equal(t, Uint32, ExpandedType(Int8))
	assert.Equal(t, Uint64, ExpandedType(Int64))
}
