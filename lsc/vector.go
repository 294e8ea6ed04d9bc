package lsc

import "fmt"

// maxSIMT is the widest per-channel message any platform issues.
const maxSIMT = 32

const typedSIMT = 16

// VectorRequest is the input of ResolveVectorShape.
type VectorRequest struct {
	Kind     OperationKind
	Shape    ShapeKind // ShapeScalar, ShapeBlock, ShapeQuad or ShapeTypedQuad
	Element  ElementType
	DataSize DataSize   // DataSizeDefault derives it from Element
	Vector   VectorSize // per-channel width; ignored for quad shapes
	Mask     ChannelMask

	// Channels is the SIMT width of per-channel messages. Zero selects
	// DefaultSIMT. Block messages always use a single channel.
	Channels    int
	DefaultSIMT int
}

// VectorShape is a resolved per-channel or block message.
type VectorShape struct {
	DataSize    DataSize    // wire data size, after sub-dword expansion
	MessageType ElementType // lane type the primitive operates on
	ResultType  ElementType // element type returned to the caller
	Vector      VectorSize
	Channels    int
	Transposed  bool

	// ElementsPerChannel is Vector's count, or the enabled channel count
	// of quad messages.
	ElementsPerChannel int
	TotalElements      int
}

// ResolveVectorShape maps a logical element type and vector width to the
// message the hardware operates on.
//
// Block (transposed) messages move Vector contiguous elements with one
// address and accept only U32 and U64 data. Per-channel messages widen
// sub-dword data into 32-bit lanes; with a SIMT width other than the
// platform default they carry a single element per channel unless the
// platform has FeatureNonDefaultSIMTVectors.
func ResolveVectorShape(caps Capabilities, req VectorRequest) (VectorShape, error) {
	e := req.Element
	if e.IsZero() {
		return VectorShape{}, shapeErrorf("Element", "<none>", "element type is required")
	}
	if dataSizeForBytes(e.Size) == DataSizeDefault {
		return VectorShape{}, shapeErrorf("Element", e, "element size %d is not 1, 2, 4 or 8 bytes", e.Size)
	}
	ds, err := elementDataSize(e, req.DataSize)
	if err != nil {
		return VectorShape{}, err
	}

	switch {
	case req.Shape.transposedMessage():
		return resolveBlockMessage(req, ds)
	case req.Shape == ShapeScalar || req.Shape == ShapeQuad:
		return resolveChannelMessage(caps, req, ds)
	case req.Shape == ShapeTypedQuad:
		return resolveTypedQuad(req)
	default:
		return VectorShape{}, shapeErrorf("Shape", req.Shape, "not a vector message shape")
	}
}

// elementDataSize returns the data size an element moves with, validating
// an explicit override against the element width.
func elementDataSize(e ElementType, ds DataSize) (DataSize, error) {
	if ds == DataSizeDefault {
		return dataSizeForBytes(e.Size), nil
	}
	if ds.Bytes() != e.Size {
		return 0, shapeErrorf("DataSize", ds, "does not match %d-byte element %s", e.Size, e)
	}
	return ds, nil
}

func resolveBlockMessage(req VectorRequest, ds DataSize) (VectorShape, error) {
	if ds != U32 && ds != U64 {
		return VectorShape{}, shapeErrorf("DataSize", ds, "transposed %s can work only with U32 and U64 data sizes", req.Kind)
	}
	if !req.Vector.Valid() {
		return VectorShape{}, &VectorSizeError{Size: req.Vector, Reason: "invalid vector size"}
	}
	n := req.Vector.NumElements()
	return VectorShape{
		DataSize:           ds,
		MessageType:        req.Element,
		ResultType:         req.Element,
		Vector:             req.Vector,
		Channels:           1,
		Transposed:         true,
		ElementsPerChannel: n,
		TotalElements:      n,
	}, nil
}

func resolveChannelMessage(caps Capabilities, req VectorRequest, ds DataSize) (VectorShape, error) {
	vs := req.Vector
	if req.Shape == ShapeQuad {
		if !req.Mask.Valid() {
			return VectorShape{}, shapeErrorf("Mask", req.Mask, "quad messages need at least one of r, g, b, a")
		}
		vs = VectorSizeOf(req.Mask.Count())
	}
	if !vs.Valid() {
		return VectorShape{}, &VectorSizeError{Size: vs, Reason: "invalid vector size"}
	}

	simt, n, err := channels(req)
	if err != nil {
		return VectorShape{}, err
	}
	if n != simt && vs != N1 && !caps.Has(FeatureNonDefaultSIMTVectors) {
		return VectorShape{}, &UnsupportedFeatureError{
			Feature:  FeatureNonDefaultSIMTVectors,
			Platform: caps.Platform(),
			Op:       fmt.Sprintf("non-transposed %s with %d channels and vector size %s", req.Kind, n, vs),
		}
	}

	per := vs.NumElements()
	return VectorShape{
		DataSize:           ds.Expand(),
		MessageType:        ExpandedType(req.Element),
		ResultType:         req.Element,
		Vector:             vs,
		Channels:           n,
		ElementsPerChannel: per,
		TotalElements:      per * n,
	}, nil
}

func resolveTypedQuad(req VectorRequest) (VectorShape, error) {
	if req.Element.Size != 4 {
		return VectorShape{}, shapeErrorf("Element", req.Element, "typed messages need a 4-byte element")
	}
	if !req.Mask.Valid() {
		return VectorShape{}, shapeErrorf("Mask", req.Mask, "typed quad messages need at least one of r, g, b, a")
	}
	if req.Kind == OpStore && !req.Mask.Contiguous() {
		return VectorShape{}, shapeErrorf("Mask", req.Mask, "only contiguous channel masks are supported")
	}
	// Typed messages are SIMD16 on every platform.
	req.DefaultSIMT = typedSIMT
	_, n, err := channels(req)
	if err != nil {
		return VectorShape{}, err
	}
	per := req.Mask.Count()
	return VectorShape{
		DataSize:           U32,
		MessageType:        CastType(req.Element),
		ResultType:         req.Element,
		Vector:             VectorSizeOf(per),
		Channels:           n,
		ElementsPerChannel: per,
		TotalElements:      per * n,
	}, nil
}

// channels returns the platform default SIMT width and the requested one.
func channels(req VectorRequest) (simt, n int, err error) {
	simt = req.DefaultSIMT
	if simt == 0 {
		simt = 16
	}
	n = req.Channels
	if n == 0 {
		n = simt
	}
	if n < 1 || n > maxSIMT {
		return 0, 0, shapeErrorf("Channels", n, "must be in [1, %d]", maxSIMT)
	}
	return simt, n, nil
}

// VectorSizeFor resolves the canonical explicit element count against the
// deprecated VectorSize alias. elements wins when set; the alias maps via
// NumElements. Setting both to different widths is an error.
func VectorSizeFor(elements int, alias VectorSize) (VectorSize, error) {
	switch {
	case elements == 0 && alias == VectorSizeInvalid:
		return N1, nil
	case elements == 0:
		if !alias.Valid() {
			return VectorSizeInvalid, &VectorSizeError{Size: alias, Reason: "invalid vector size"}
		}
		return alias, nil
	}
	vs := VectorSizeOf(elements)
	if vs == VectorSizeInvalid {
		return vs, &VectorSizeError{Elements: elements, Reason: "allowed counts are 1, 2, 3, 4, 8, 16, 32 and 64"}
	}
	if alias != VectorSizeInvalid && alias != vs {
		return VectorSizeInvalid, &VectorSizeError{
			Elements: elements,
			Reason:   fmt.Sprintf("conflicts with vector size %s (%d elements)", alias, alias.NumElements()),
		}
	}
	return vs, nil
}
