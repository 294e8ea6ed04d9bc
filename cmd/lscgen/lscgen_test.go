package main

import (
	"bytes"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajroetker/go-lsc/lsc"
)

const testManifest = `
package: kernels
sites:
  - site: copy.cm:10
    op: load
    element: float32
  - site: gemm.cm:42
    op: load
    shape: block2d
    element: float
    l1: ca
    l2: ca
    block: {width: 8, height: 4, blocks: 1}
fences:
  - site: gemm.cm:60
    scope: system
`

func mustManifest(t *testing.T, src string) *Manifest {
	t.Helper()
	m, err := parseManifest([]byte(src))
	if err != nil {
		t.Fatalf("parseManifest: %v", err)
	}
	return m
}

func TestParsePlatforms(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr bool
	}{
		{"xe2", []string{"xe2"}, false},
		{"xe2, dg2", []string{"xe2", "dg2"}, false},
		{"xe2,lnl,bmg", []string{"xe2"}, false},
		{"all", lsc.AvailablePlatforms(), false},
		{"", nil, true},
		{"xe2,bogus", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePlatforms(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlatforms(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePlatforms(%q) returned %d platforms, want %d", tt.input, len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Name != tt.want[i] {
					t.Errorf("parsePlatforms(%q)[%d] = %s, want %s", tt.input, i, p.Name, tt.want[i])
				}
			}
		})
	}
}

func TestParseFeatures(t *testing.T) {
	got, err := parseFeatures("lsc-untyped-2d, lsc-sys-fence")
	if err != nil {
		t.Fatalf("parseFeatures: %v", err)
	}
	if len(got) != 2 || got[0] != lsc.FeatureLSCUntyped2D || got[1] != lsc.FeatureSystemFence {
		t.Errorf("parseFeatures = %v", got)
	}
	if _, err := parseFeatures("warp-drive"); err == nil {
		t.Error("parseFeatures accepted an unknown feature")
	}
}

func TestParseManifest(t *testing.T) {
	m := mustManifest(t, testManifest)
	if m.Package != "kernels" {
		t.Errorf("Package = %q, want kernels", m.Package)
	}
	if len(m.Sites) != 2 || len(m.Fences) != 1 {
		t.Fatalf("got %d sites and %d fences, want 2 and 1", len(m.Sites), len(m.Fences))
	}
	if b := m.Sites[1].Block; b == nil || b.Width != 8 || b.Height != 4 {
		t.Errorf("block = %+v", b)
	}

	if m := mustManifest(t, "sites: []"); m.Package != "plans" {
		t.Errorf("default package = %q, want plans", m.Package)
	}

	bad := []struct {
		name string
		src  string
	}{
		{"UnknownField", "sites:\n  - site: a\n    op: load\n    colour: red\n"},
		{"MissingSite", "sites:\n  - op: load\n"},
		{"DuplicateSite", "sites:\n  - site: a\n    op: load\n  - site: a\n    op: store\n"},
		{"DuplicateFence", "sites:\n  - site: a\n    op: load\nfences:\n  - site: a\n"},
		{"NotYAML", "sites: [\n"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseManifest([]byte(tt.src)); err == nil {
				t.Error("parseManifest succeeded, want error")
			}
		})
	}
}

func TestSiteRequest(t *testing.T) {
	s := SiteSpec{
		Site:     "scatter.cm:3",
		Op:       "atomic",
		Space:    "slm",
		Element:  "uint",
		Atomic:   "add",
		Channels: 16,
	}
	req, err := s.Request()
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Kind != lsc.OpAtomic || req.Space != lsc.SharedLocalMemory || req.Shape != lsc.ShapeScalar {
		t.Errorf("request key = %v", lsc.PrimitiveKey{Space: req.Space, Shape: req.Shape, Kind: req.Kind})
	}
	if req.Element != lsc.Uint32 || req.Atomic != lsc.AtomicAdd || req.Channels != 16 {
		t.Errorf("request = %+v", req)
	}

	s = SiteSpec{Site: "bad.cm:1", Op: "peek", Element: "quad", L2: "sideways"}
	_, err = s.Request()
	if err == nil {
		t.Fatal("Request accepted misspelled fields")
	}
	for _, field := range []string{"op:", "element:", "l2:"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %s", err, field)
		}
	}

	s = SiteSpec{Site: "legacy.cm:1", Op: "load", Element: "int", VectorSize: 5}
	if _, err := s.Request(); err == nil {
		t.Error("Request accepted vector_size 5")
	}
}

func TestFenceRequest(t *testing.T) {
	f, err := FenceSpec{Site: "f", SFID: "slm", Op: "evict", Scope: "gpu"}.Request()
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if f.SFID != lsc.FenceSLM || f.Op != lsc.FenceOpEvict || f.Scope != lsc.ScopeGPU {
		t.Errorf("fence = %v", f)
	}
	if f, _ := (FenceSpec{Site: "g"}).Request(); f != (lsc.FenceRequest{}) {
		t.Errorf("default fence = %v, want zero value", f)
	}
	if _, err := (FenceSpec{Site: "h", Scope: "universe"}).Request(); err == nil {
		t.Error("Request accepted an unknown scope")
	}
}

func TestPlanAll(t *testing.T) {
	m := mustManifest(t, testManifest)
	platforms, err := parsePlatforms("xe2,dg2")
	if err != nil {
		t.Fatal(err)
	}
	plans, err := planAll(t.Context(), m, planOptions{Platforms: platforms})
	if err != nil {
		t.Fatalf("planAll: %v", err)
	}
	if len(plans) != 2 || plans[0].Platform.Name != "xe2" || plans[1].Platform.Name != "dg2" {
		t.Fatalf("plans not in platform order")
	}

	xe2, dg2 := plans[0], plans[1]
	if n := len(xe2.Failed()); n != 0 {
		t.Errorf("xe2: %d failed sites: %v", n, xe2.Failed())
	}
	if got := xe2.Sites[1].Invocation.Primitive; got != "__cm_intrinsic_impl_block_load2d_flat" {
		t.Errorf("xe2 gemm.cm:42 primitive = %s", got)
	}

	failed := dg2.Failed()
	if len(failed) != 2 {
		t.Fatalf("dg2: %d failed sites, want 2", len(failed))
	}
	for _, s := range failed {
		if !errors.Is(s.Err, lsc.ErrUnsupportedFeature) {
			t.Errorf("dg2 %s: error %v is not ErrUnsupportedFeature", s.Site, s.Err)
		}
	}
	if countFailed(plans) != 2 {
		t.Errorf("countFailed = %d, want 2", countFailed(plans))
	}
}

func TestPlanAllDisabledFeatures(t *testing.T) {
	m := mustManifest(t, testManifest)
	plans, err := planAll(t.Context(), m, planOptions{
		Platforms: []lsc.Platform{lsc.MustPlatform("xe2")},
		Disabled:  []lsc.Feature{lsc.FeatureLSCUntyped2D},
	})
	if err != nil {
		t.Fatal(err)
	}
	failed := plans[0].Failed()
	if len(failed) != 1 || failed[0].Site != "gemm.cm:42" {
		t.Errorf("failed = %v, want only gemm.cm:42", failed)
	}
}

func TestPlanVarName(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"xe2", "PlanXe2"},
		{"icllp", "PlanIcllp"},
		{"emu", "PlanEmu"},
	}
	for _, tt := range tests {
		if got := planVarName(lsc.MustPlatform(tt.platform)); got != tt.want {
			t.Errorf("planVarName(%s) = %s, want %s", tt.platform, got, tt.want)
		}
	}
}

func TestEmitPlan(t *testing.T) {
	m := mustManifest(t, testManifest)
	m.Source = "kernels.yaml"
	plans, err := planAll(t.Context(), m, planOptions{Platforms: []lsc.Platform{lsc.MustPlatform("xe2"), lsc.MustPlatform("dg2")}})
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range plans {
		t.Run(p.Platform.Name, func(t *testing.T) {
			src, err := emitPlan(m, p)
			if err != nil {
				t.Fatalf("emitPlan: %v", err)
			}
			fset := token.NewFileSet()
			file, err := parser.ParseFile(fset, planFileName(p.Platform), src, parser.ParseComments)
			if err != nil {
				t.Fatalf("generated code does not parse: %v\n%s", err, src)
			}
			if file.Name.Name != "kernels" {
				t.Errorf("package = %s, want kernels", file.Name.Name)
			}
			if !strings.HasPrefix(string(src), "// Code generated by lscgen from kernels.yaml. DO NOT EDIT.") {
				t.Errorf("missing generated header:\n%s", src)
			}

			var found *ast.CompositeLit
			ast.Inspect(file, func(n ast.Node) bool {
				vs, ok := n.(*ast.ValueSpec)
				if ok && vs.Names[0].Name == planVarName(p.Platform) {
					found, _ = vs.Values[0].(*ast.CompositeLit)
				}
				return found == nil
			})
			if found == nil {
				t.Fatalf("no %s table in:\n%s", planVarName(p.Platform), src)
			}
			want := len(p.Sites) - len(p.Failed())
			if len(found.Elts) != want {
				t.Errorf("%d table entries, want %d", len(found.Elts), want)
			}
			for _, s := range p.Failed() {
				if !strings.Contains(string(src), "// "+s.Site+": ") {
					t.Errorf("rejected site %s not listed as comment", s.Site)
				}
			}
		})
	}
}

func TestWritePlanFile(t *testing.T) {
	m := mustManifest(t, testManifest)
	dir := filepath.Join(t.TempDir(), "out")
	plans, err := planAll(t.Context(), m, planOptions{Platforms: []lsc.Platform{lsc.MustPlatform("pvc")}})
	if err != nil {
		t.Fatal(err)
	}
	filename, err := writePlanFile(dir, m, plans[0])
	if err != nil {
		t.Fatalf("writePlanFile: %v", err)
	}
	if filepath.Base(filename) != "lsc_plan_pvc.gen.go" {
		t.Errorf("filename = %s", filename)
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(src), `"__cm_intrinsic_impl_lsc_fence"`) {
		t.Errorf("fence missing from plan:\n%s", src)
	}
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kernels.yaml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlanCommand(t *testing.T) {
	path := writeManifest(t)

	out, _, err := runCmd(t, "plan", "-m", path, "-p", "xe2")
	if err != nil {
		t.Fatalf("plan on xe2: %v", err)
	}
	if !strings.Contains(out, "xe2 (3 sites, 0 failed)") || !strings.Contains(out, "block_load2d_flat") {
		t.Errorf("unexpected report:\n%s", out)
	}

	out, _, err = runCmd(t, "plan", "-m", path, "-p", "dg2")
	if err == nil {
		t.Fatal("plan on dg2 succeeded, want translation failures")
	}
	if !strings.Contains(out, "error: lsc:") {
		t.Errorf("report does not show the rejection:\n%s", out)
	}

	if _, _, err := runCmd(t, "plan"); err == nil {
		t.Error("plan without --manifest succeeded")
	}
}

func TestEmitCommand(t *testing.T) {
	path := writeManifest(t)
	dir := t.TempDir()

	out, _, err := runCmd(t, "emit", "-m", path, "-p", "xe2,dg2", "-o", dir, "--pkg", "gemm")
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	for _, name := range []string{"lsc_plan_xe2.gen.go", "lsc_plan_dg2.gen.go"} {
		if !strings.Contains(out, name) {
			t.Errorf("output does not mention %s:\n%s", name, out)
		}
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(src), "package gemm") {
			t.Errorf("%s: --pkg not applied", name)
		}
	}

	if _, _, err := runCmd(t, "emit", "-m", path, "-p", "dg2", "-o", t.TempDir(), "--strict"); err == nil {
		t.Error("emit --strict succeeded with rejected sites")
	}
}

func TestPlatformsCommand(t *testing.T) {
	out, _, err := runCmd(t, "platforms", "-p", "pvc,tgllp", "--disable", "lsc-sys-fence")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "pvc") || !strings.Contains(lines[0], "lsc-untyped-2d") {
		t.Errorf("pvc line = %q", lines[0])
	}
	if strings.Contains(lines[0], "lsc-sys-fence") {
		t.Errorf("disabled feature listed: %q", lines[0])
	}
	if strings.Contains(lines[1], "lsc ") {
		t.Errorf("tgllp lists lsc: %q", lines[1])
	}
}

func TestVerboseLogging(t *testing.T) {
	path := writeManifest(t)
	_, stderr, err := runCmd(t, "plan", "-m", path, "-p", "xe2", "-v")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "copy.cm:10") {
		t.Errorf("verbose log does not mention sites:\n%s", stderr)
	}
}
