package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/ajroetker/go-lsc/lsc"
)

const lscImportPath = "github.com/ajroetker/go-lsc/lsc"

var (
	spaceIdents = map[lsc.AddressSpace]string{
		lsc.SurfaceIndexed:    "SurfaceIndexed",
		lsc.FlatPointer:       "FlatPointer",
		lsc.SharedLocalMemory: "SharedLocalMemory",
	}
	shapeIdents = map[lsc.ShapeKind]string{
		lsc.ShapeScalar:    "ShapeScalar",
		lsc.ShapeBlock:     "ShapeBlock",
		lsc.ShapeBlock2D:   "ShapeBlock2D",
		lsc.ShapeQuad:      "ShapeQuad",
		lsc.ShapeTyped2D:   "ShapeTyped2D",
		lsc.ShapeTypedQuad: "ShapeTypedQuad",
	}
	kindIdents = map[lsc.OperationKind]string{
		lsc.OpPrefetch: "OpPrefetch",
		lsc.OpLoad:     "OpLoad",
		lsc.OpStore:    "OpStore",
		lsc.OpAtomic:   "OpAtomic",
	}
)

// planFileName returns the generated file name for a platform.
func planFileName(p lsc.Platform) string {
	return "lsc_plan_" + p.Name + ".gen.go"
}

// planVarName returns the exported table name for a platform: "PlanXe2".
func planVarName(p lsc.Platform) string {
	var sb strings.Builder
	sb.WriteString("Plan")
	upper := true
	for _, r := range p.Name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// emitPlan renders the plan of one platform as a Go source file. Rejected
// sites are kept as comments so the file always lists every site.
func emitPlan(m *Manifest, p Plan) ([]byte, error) {
	var buf bytes.Buffer
	source := ""
	if m.Source != "" {
		source = " from " + m.Source
	}
	fmt.Fprintf(&buf, "// Code generated by lscgen%s. DO NOT EDIT.\n\n", source)
	fmt.Fprintf(&buf, "package %s\n\n", m.Package)
	fmt.Fprintf(&buf, "import %q\n\n", lscImportPath)

	name := planVarName(p.Platform)
	fmt.Fprintf(&buf, "// %s lists the primitives selected for platform %s.\n", name, p.Platform.Name)
	fmt.Fprintf(&buf, "var %s = []lsc.PlannedSite{\n", name)
	for _, s := range p.Sites {
		if s.Err != nil {
			fmt.Fprintf(&buf, "// %s: %s\n", s.Site, oneLine(trimSite(s.Err, s.Site)))
			continue
		}
		inv := s.Invocation
		buf.WriteString("{\n")
		fmt.Fprintf(&buf, "Site: %s,\n", strconv.Quote(s.Site))
		if inv.Fence == nil {
			fmt.Fprintf(&buf, "Key: lsc.PrimitiveKey{Space: lsc.%s, Shape: lsc.%s, Kind: lsc.%s},\n",
				spaceIdents[inv.Key.Space], shapeIdents[inv.Key.Shape], kindIdents[inv.Key.Kind])
		}
		fmt.Fprintf(&buf, "Primitive: %s,\n", strconv.Quote(inv.Primitive))
		fmt.Fprintf(&buf, "Call: %s,\n", strconv.Quote(inv.String()))
		buf.WriteString("},\n")
	}
	buf.WriteString("}\n")

	out, err := imports.Process(planFileName(p.Platform), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w\n%s", planFileName(p.Platform), err, buf.String())
	}
	return out, nil
}

// writePlanFile emits the plan into dir and returns the file written.
func writePlanFile(dir string, m *Manifest, p Plan) (string, error) {
	src, err := emitPlan(m, p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, planFileName(p.Platform))
	if err := os.WriteFile(filename, src, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
