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
	"context"
	"fmt"
	"sync"

	"github.com/ajroetker/go-lsc/internal/workerpool"
)

// Request is the descriptor of one memory-access call site.
type Request struct {
	// Site labels the call site in diagnostics, e.g. "kernel.cm:42".
	Site string

	Kind     OperationKind
	Space    AddressSpace
	Shape    ShapeKind
	Element  ElementType
	DataSize DataSize
	Hints    HintPair

	// Elements is the per-channel element count of scalar and block
	// messages: 1, 2, 3, 4, 8, 16, 32 or 64. Zero means 1.
	Elements int

	// Deprecated: VectorSize is the legacy form of Elements. It maps to
	// VectorSize.NumElements() elements; setting both to different widths
	// is an error.
	VectorSize VectorSize

	// Channels is the SIMT width of per-channel messages, 0 for the
	// platform default.
	Channels int
	Mask     ChannelMask // quad shapes
	Block    BlockShape  // 2D shapes
	Atomic   AtomicOp    // OpAtomic only

	// DataElements is the length of the caller's data or result vector
	// for 2D block transfers: the padded or the logical element count.
	// Zero skips the check; loads then report the Extraction to apply.
	DataElements int

	Operands Operands
}

func (r Request) key() PrimitiveKey {
	return PrimitiveKey{Space: r.Space, Shape: r.Shape, Kind: r.Kind}
}

// Result is a translated request.
type Result struct {
	Invocation Invocation
	Vector     *VectorShape  // scalar, block and quad shapes
	Layout     *PaddedLayout // 2D shapes

	// Extraction is set for 2D block loads whose padded registers the
	// caller must strip.
	Extraction *Extraction
}

type options struct {
	logger  *Logger
	invoker Invoker
	workers int
	caps    *Capabilities
}

// Option configures a Translator.
type Option func(*options)

// WithLogger sets the diagnostics logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithInvoker sets the primitive surface used by Execute.
func WithInvoker(inv Invoker) Option {
	return func(o *options) { o.invoker = inv }
}

// WithWorkers sets the worker count of TranslateAll; <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCapabilities replaces the platform's capability table, e.g. to
// translate with features disabled.
func WithCapabilities(c Capabilities) Option {
	return func(o *options) { o.caps = &c }
}

// Translator validates, shapes and dispatches requests for one platform.
// It holds no per-request state and is safe for concurrent use.
type Translator struct {
	platform Platform
	caps     Capabilities
	logger   *Logger
	invoker  Invoker
	workers  int

	poolOnce sync.Once
	pool     *workerpool.Pool
}

// NewTranslator returns a Translator for p.
func NewTranslator(p Platform, opts ...Option) *Translator {
	o := options{logger: NoopLogger()}
	for _, fn := range opts {
		fn(&o)
	}
	caps := p.Capabilities()
	if o.caps != nil {
		caps = *o.caps
	}
	return &Translator{
		platform: p,
		caps:     caps,
		logger:   o.logger.WithPlatform(p.Name),
		invoker:  o.invoker,
		workers:  o.workers,
	}
}

// NewDefaultTranslator returns a Translator for the platform and features
// selected by LSC_PLATFORM and LSC_DISABLE_FEATURES.
func NewDefaultTranslator(opts ...Option) *Translator {
	opts = append([]Option{WithCapabilities(DefaultCapabilities())}, opts...)
	return NewTranslator(DefaultPlatform(), opts...)
}

// Platform returns the target platform.
func (t *Translator) Platform() Platform { return t.platform }

// Capabilities returns the capability table requests are gated against.
func (t *Translator) Capabilities() Capabilities { return t.caps }

// Close releases the TranslateAll workers.
func (t *Translator) Close() {
	if t.pool != nil {
		t.pool.Close()
	}
}

// Translate runs the full pipeline for one request: table lookup, the
// capability gate, cache hint validation, shape resolution and dispatch.
// The first failing stage ends translation; the error matches one of the
// package's sentinel errors and is prefixed with req.Site.
func (t *Translator) Translate(req Request) (Result, error) {
	ctx := context.Background()
	res, err := t.translate(ctx, req)
	t.logger.LogTranslate(ctx, req.Site, req.key(), res.Invocation.Primitive, err)
	if err != nil {
		if req.Site != "" {
			err = fmt.Errorf("%s: %w", req.Site, err)
		}
		return Result{}, err
	}
	return res, nil
}

// Execute translates req and hands the invocation to the Invoker exactly
// once. Without an Invoker it only translates.
func (t *Translator) Execute(ctx context.Context, req Request) (Result, error) {
	res, err := t.Translate(req)
	if err != nil || t.invoker == nil {
		return res, err
	}
	if err := t.invoker.Invoke(ctx, res.Invocation); err != nil {
		return res, fmt.Errorf("invoke %s: %w", res.Invocation.Primitive, err)
	}
	return res, nil
}

func (t *Translator) translate(ctx context.Context, req Request) (Result, error) {
	key := req.key()
	prim, ok := LookupPrimitive(key)
	if !ok {
		return Result{}, shapeErrorf("Shape", req.Shape, "no %s primitive for %s", key, req.Element)
	}
	if req.Element.IsZero() {
		return Result{}, shapeErrorf("Element", "<none>", "element type is required")
	}

	// Gate first: an unsupported request fails before any shape work.
	if err := t.caps.RequireAll(prim.RequiredFeatures(req.Element), key.String()); err != nil {
		return Result{}, err
	}
	if err := CheckHints(t.caps, req.Kind, req.Space, req.Hints); err != nil {
		return Result{}, err
	}

	shaped := Shaped{
		Key:      key,
		Element:  req.Element,
		Hints:    req.Hints,
		Mask:     req.Mask,
		Operands: req.Operands,
	}
	var res Result

	switch req.Shape {
	case ShapeScalar, ShapeBlock, ShapeQuad, ShapeTypedQuad:
		vs, err := t.vectorSize(ctx, req)
		if err != nil {
			return Result{}, err
		}
		shape, err := ResolveVectorShape(t.caps, VectorRequest{
			Kind:        req.Kind,
			Shape:       req.Shape,
			Element:     req.Element,
			DataSize:    req.DataSize,
			Vector:      vs,
			Mask:        req.Mask,
			Channels:    req.Channels,
			DefaultSIMT: t.platform.DefaultSIMT(),
		})
		if err != nil {
			return Result{}, err
		}
		if req.Kind == OpAtomic {
			if err := CheckAtomic(req.Atomic, req.Element, len(req.Operands.Sources)); err != nil {
				return Result{}, err
			}
			op := req.Atomic
			shaped.Atomic = &op
		}
		shaped.Vector = &shape
		res.Vector = &shape

	case ShapeBlock2D, ShapeTyped2D:
		layout, err := t.layout(req)
		if err != nil {
			return Result{}, err
		}
		b := req.Block
		b.NumBlocks = b.numBlocks()
		shaped.Layout = &layout
		shaped.Block = &b
		res.Layout = &layout
		if req.Kind == OpLoad && req.DataElements != layout.TotalPadded {
			res.Extraction = layout.Extraction()
		}
	}

	inv, err := Dispatch(shaped)
	if err != nil {
		panic(fmt.Sprintf("lsc: validated request without primitive: %v", err))
	}
	res.Invocation = inv
	return res, nil
}

// vectorSize resolves the per-channel width of a vector-shaped request.
func (t *Translator) vectorSize(ctx context.Context, req Request) (VectorSize, error) {
	if req.VectorSize != VectorSizeInvalid {
		t.logger.LogDeprecated(ctx, req.Site, "VectorSize", "Elements")
	}
	if req.Shape == ShapeQuad || req.Shape == ShapeTypedQuad {
		if n := req.Mask.Count(); req.Elements != 0 && req.Elements != n {
			return VectorSizeInvalid, &VectorSizeError{
				Elements: req.Elements,
				Reason:   fmt.Sprintf("channel mask %s selects %d elements", req.Mask, n),
			}
		}
		return VectorSizeOf(req.Mask.Count()), nil
	}
	return VectorSizeFor(req.Elements, req.VectorSize)
}

// layout resolves and checks the register layout of a 2D request.
func (t *Translator) layout(req Request) (PaddedLayout, error) {
	var (
		l   PaddedLayout
		err error
	)
	switch {
	case req.Shape == ShapeTyped2D:
		l, err = denseLayout(req.Element.Size, req.Block)
	case req.Kind == OpStore:
		l, err = StoreLayout(req.Element.Size, req.Block)
	case req.Kind == OpPrefetch && (req.Block.Transposed || req.Block.Transformed):
		err = shapeErrorf("Transposed", true, "2D block prefetch is never transposed or transformed")
	default:
		l, err = ResolveBlockShape(req.Element.Size, req.Block)
	}
	if err != nil {
		return PaddedLayout{}, err
	}
	if req.DataElements != 0 {
		if err := l.CheckElementCount(req.DataElements); err != nil {
			return PaddedLayout{}, err
		}
	}
	return l, nil
}

// TranslateFence validates a fence and returns its invocation.
func (t *Translator) TranslateFence(f FenceRequest) (Invocation, error) {
	if err := f.validate(); err != nil {
		return Invocation{}, err
	}
	if err := t.caps.RequireAll(f.requiredFeatures(), f.String()); err != nil {
		return Invocation{}, err
	}
	n := f.Channels
	if n == 0 {
		n = t.platform.DefaultSIMT()
	}
	return Invocation{
		Primitive: fencePrimitive.Name,
		Channels:  n,
		Fence:     &f,
	}, nil
}
