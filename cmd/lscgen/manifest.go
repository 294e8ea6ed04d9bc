package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-lsc/lsc"
)

// Manifest is the YAML description of a kernel's call sites.
//
//	package: kernels
//	sites:
//	  - site: gemm.cm:42
//	    op: load
//	    space: flat
//	    shape: block2d
//	    element: half
//	    l1: cached
//	    l2: cached
//	    block: {width: 16, height: 8, blocks: 2}
//	fences:
//	  - site: gemm.cm:60
//	    scope: gpu
type Manifest struct {
	Package string      `yaml:"package"`
	Sites   []SiteSpec  `yaml:"sites"`
	Fences  []FenceSpec `yaml:"fences"`

	// Source is the file the manifest was read from.
	Source string `yaml:"-"`
}

// SiteSpec is one memory-access call site. Enumerations are spelled as
// their String forms; empty fields take the request defaults.
type SiteSpec struct {
	Site       string     `yaml:"site"`
	Op         string     `yaml:"op"`
	Space      string     `yaml:"space"`
	Shape      string     `yaml:"shape"`
	Element    string     `yaml:"element"`
	DataSize   string     `yaml:"data_size"`
	L1         string     `yaml:"l1"`
	L2         string     `yaml:"l2"`
	Elements   int        `yaml:"elements"`
	VectorSize int        `yaml:"vector_size"` // deprecated alias of elements
	Channels   int        `yaml:"channels"`
	Mask       string     `yaml:"mask"`
	Atomic     string     `yaml:"atomic"`
	Block      *BlockSpec `yaml:"block"`
	Data       int        `yaml:"data_elements"`
}

// BlockSpec is the 2D block of a block2d or typed2d site.
type BlockSpec struct {
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	Blocks      int  `yaml:"blocks"`
	Transposed  bool `yaml:"transposed"`
	Transformed bool `yaml:"transformed"`
}

// FenceSpec is one fence call site.
type FenceSpec struct {
	Site     string `yaml:"site"`
	SFID     string `yaml:"sfid"`
	Op       string `yaml:"op"`
	Scope    string `yaml:"scope"`
	Channels int    `yaml:"channels"`
}

// loadManifest reads and validates a manifest file.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Source = filepath.Base(path)
	return m, nil
}

// parseManifest decodes a manifest, rejecting unknown fields.
func parseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Package == "" {
		m.Package = "plans"
	}

	seen := make(map[string]bool)
	for i, s := range m.Sites {
		if s.Site == "" {
			return nil, fmt.Errorf("sites[%d]: missing site label", i)
		}
		if seen[s.Site] {
			return nil, fmt.Errorf("sites[%d]: duplicate site %q", i, s.Site)
		}
		seen[s.Site] = true
	}
	for i, f := range m.Fences {
		if f.Site == "" {
			return nil, fmt.Errorf("fences[%d]: missing site label", i)
		}
		if seen[f.Site] {
			return nil, fmt.Errorf("fences[%d]: duplicate site %q", i, f.Site)
		}
		seen[f.Site] = true
	}
	return &m, nil
}

// Request converts the site to a translator request. Only spelling errors
// are reported here; everything else is left to the translator.
func (s SiteSpec) Request() (lsc.Request, error) {
	req := lsc.Request{
		Site:         s.Site,
		Elements:     s.Elements,
		Channels:     s.Channels,
		DataElements: s.Data,
	}
	var errs []error
	parse := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	var err error
	req.Kind, err = lsc.ParseOperationKind(s.Op)
	parse("op", err)
	req.Space, err = lsc.ParseAddressSpace(defaultString(s.Space, "flat"))
	parse("space", err)
	req.Shape, err = lsc.ParseShapeKind(defaultString(s.Shape, "scalar"))
	parse("shape", err)
	if s.Element != "" {
		req.Element, err = lsc.ParseElementType(s.Element)
		parse("element", err)
	}
	req.DataSize, err = lsc.ParseDataSize(s.DataSize)
	parse("data_size", err)
	req.Hints.L1, err = lsc.ParseCacheHint(s.L1)
	parse("l1", err)
	req.Hints.L2, err = lsc.ParseCacheHint(s.L2)
	parse("l2", err)
	req.Mask, err = lsc.ParseChannelMask(s.Mask)
	parse("mask", err)
	if s.Atomic != "" {
		req.Atomic, err = lsc.ParseAtomicOp(s.Atomic)
		parse("atomic", err)
	}
	if s.VectorSize != 0 {
		req.VectorSize = lsc.VectorSizeOf(s.VectorSize)
		if !req.VectorSize.Valid() {
			errs = append(errs, fmt.Errorf("vector_size: unsupported size %d", s.VectorSize))
		}
	}
	if s.Block != nil {
		req.Block = lsc.BlockShape{
			Width:       s.Block.Width,
			Height:      s.Block.Height,
			NumBlocks:   s.Block.Blocks,
			Transposed:  s.Block.Transposed,
			Transformed: s.Block.Transformed,
		}
	}
	if len(errs) > 0 {
		return lsc.Request{}, fmt.Errorf("site %s: %w", s.Site, errors.Join(errs...))
	}
	return req, nil
}

// Request converts the fence site to a fence request.
func (f FenceSpec) Request() (lsc.FenceRequest, error) {
	sfid, err1 := lsc.ParseFenceSFID(defaultString(f.SFID, "ugm"))
	op, err2 := lsc.ParseFenceOp(defaultString(f.Op, "none"))
	scope, err3 := lsc.ParseFenceScope(defaultString(f.Scope, "group"))
	if err := errors.Join(err1, err2, err3); err != nil {
		return lsc.FenceRequest{}, fmt.Errorf("fence %s: %w", f.Site, err)
	}
	return lsc.FenceRequest{SFID: sfid, Op: op, Scope: scope, Channels: f.Channels}, nil
}

// Requests converts every site of the manifest.
func (m *Manifest) Requests() ([]lsc.Request, error) {
	reqs := make([]lsc.Request, 0, len(m.Sites))
	var errs []error
	for _, s := range m.Sites {
		r, err := s.Request()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reqs = append(reqs, r)
	}
	return reqs, errors.Join(errs...)
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
