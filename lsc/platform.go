package lsc

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
)

// Platform describes one GPU target the translator can generate code for.
type Platform struct {
	Name        string // "dg2", "pvc", "xe2", ...
	GenX        int    // legacy generation code: 900 for SKL, 1271 for DG2, 1280 for PVC
	TargetMajor int    // architecture major version: 9, 11, 12, 20
	GRFWidth    int    // general register width in bytes: 32 or 64

	// Extra lists features the generation rules cannot derive (build-time
	// opt-ins of the original toolchain).
	Extra []Feature

	// host marks the emulation platform, whose features partly come from
	// the host CPU.
	host bool
}

// DefaultSIMT returns the native channel count of per-channel messages.
func (p Platform) DefaultSIMT() int {
	if p.GRFWidth >= 64 {
		return 32
	}
	return 16
}

// featureRule derives one feature from the generation numbers.
type featureRule struct {
	feature Feature
	has     func(p Platform) bool
}

// featureRules is the single capability table: every platform switch of
// the memory subsystem is expressed here instead of at the call sites.
var featureRules = []featureRule{
	{FeatureLSC, func(p Platform) bool { return p.GenX >= 1271 }},
	{FeatureLSCUntyped2D, func(p Platform) bool { return p.GenX >= 1280 }},
	{FeatureLSCTyped, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureLSCTyped2D, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureSystemFence, func(p Platform) bool { return p.GenX >= 1280 }},
	{FeatureL1L2CCHint, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureL1L3CCHint, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureLoadL1RIL3RIHint, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureLoadL1RIL3CAHint, func(p Platform) bool { return p.GenX >= 1271 && p.TargetMajor < 20 }},
	{FeatureNonDefaultSIMTVectors, func(p Platform) bool { return p.TargetMajor >= 20 }},
	{FeatureBitRotate, func(p Platform) bool { return p.GenX >= 1150 }},
	{FeatureBitRotate64, func(p Platform) bool { return p.GenX >= 1280 }},
	{FeatureGatewayEvent, func(p Platform) bool { return p.GenX >= 1150 && p.GenX <= 1280 }},
	{FeatureSampleUnorm, func(p Platform) bool { return p.GenX < 1270 }},
	{FeatureTypedAtomic, func(p Platform) bool { return p.TargetMajor >= 9 && p.TargetMajor < 20 }},
	{FeatureIEEEDivSqrt, func(p Platform) bool {
		switch p.GenX {
		case 800, 900, 950, 1150, 1270:
			return true
		}
		return p.GenX >= 1280
	}},
}

// Capabilities resolves the platform's feature table.
func (p Platform) Capabilities() Capabilities {
	var features []Feature
	for _, r := range featureRules {
		if r.has(p) {
			features = append(features, r.feature)
		}
	}
	features = append(features, p.Extra...)
	if p.host {
		features = slices.DeleteFunc(features, func(f Feature) bool { return f == FeatureSLMAtomicInt64 })
		if hostHas64BitAtomics() {
			features = append(features, FeatureSLMAtomicInt64)
		}
	}
	return NewCapabilities(p.Name, features...)
}

var platforms = []Platform{
	{Name: "bdw", GenX: 800, TargetMajor: 8, GRFWidth: 32},
	{Name: "skl", GenX: 900, TargetMajor: 9, GRFWidth: 32},
	{Name: "kbl", GenX: 950, TargetMajor: 9, GRFWidth: 32},
	{Name: "icllp", GenX: 1150, TargetMajor: 11, GRFWidth: 32},
	{Name: "tgllp", GenX: 1200, TargetMajor: 12, GRFWidth: 32, Extra: []Feature{FeatureDP4A}},
	{Name: "xehp", GenX: 1270, TargetMajor: 12, GRFWidth: 32, Extra: []Feature{FeatureDP4A, FeatureBF16, FeatureBFN}},
	{Name: "dg2", GenX: 1271, TargetMajor: 12, GRFWidth: 32, Extra: []Feature{FeatureDP4A, FeatureBF16, FeatureBFN}},
	{Name: "pvc", GenX: 1280, TargetMajor: 12, GRFWidth: 64, Extra: []Feature{FeatureDP4A, FeatureBF16, FeatureBFN, FeatureTF32, FeatureSLMAtomicInt64}},
	{Name: "xe2", GenX: 2000, TargetMajor: 20, GRFWidth: 64, Extra: []Feature{FeatureDP4A, FeatureBF16, FeatureBFN, FeatureTF32, FeatureSLMAtomicInt64}},
	{Name: "emu", GenX: 2000, TargetMajor: 20, GRFWidth: 64, Extra: []Feature{FeatureDP4A, FeatureBF16, FeatureBFN, FeatureTF32}, host: true},
}

// Marketing names that map onto a catalogue entry.
var platformAliases = map[string]string{
	"gen8":     "bdw",
	"gen9":     "skl",
	"gen11":    "icllp",
	"gen12":    "tgllp",
	"xe-hp":    "xehp",
	"xe-hpg":   "dg2",
	"xe-hpc":   "pvc",
	"lnl":      "xe2",
	"bmg":      "xe2",
	"xe2-lpg":  "xe2",
	"xe2-hpg":  "xe2",
	"host":     "emu",
	"emulator": "emu",
}

// AvailablePlatforms returns the catalogue names in generation order.
func AvailablePlatforms() []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}

// GetPlatform returns the catalogue entry for name or an alias of it.
func GetPlatform(name string) (Platform, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := platformAliases[n]; ok {
		n = alias
	}
	for _, p := range platforms {
		if p.Name == n {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("unknown platform: %s (valid: %s)", name, strings.Join(AvailablePlatforms(), ", "))
}

// MustPlatform is like GetPlatform but panics on unknown names.
func MustPlatform(name string) Platform {
	p, err := GetPlatform(name)
	if err != nil {
		panic(err)
	}
	return p
}

// defaultPlatformName is used when LSC_PLATFORM is unset.
const defaultPlatformName = "xe2"

var (
	defaultOnce     sync.Once
	defaultPlatform Platform
	defaultCaps     Capabilities
	defaultErr      error
)

// resolveDefault reads LSC_PLATFORM and LSC_DISABLE_FEATURES once.
func resolveDefault() {
	name := os.Getenv("LSC_PLATFORM")
	if name == "" {
		name = defaultPlatformName
	}
	defaultPlatform, defaultErr = GetPlatform(name)
	if defaultErr != nil {
		defaultPlatform = MustPlatform(defaultPlatformName)
	}
	defaultCaps = defaultPlatform.Capabilities()

	disabled, err := parseFeatureList(os.Getenv("LSC_DISABLE_FEATURES"))
	if err != nil && defaultErr == nil {
		defaultErr = err
	}
	defaultCaps = defaultCaps.Without(disabled...)
}

// DefaultPlatform returns the process-wide platform selected by the
// LSC_PLATFORM environment variable ("xe2" when unset).
//
// The selection is resolved once, on first use, and never changes.
func DefaultPlatform() Platform {
	defaultOnce.Do(resolveDefault)
	return defaultPlatform
}

// DefaultCapabilities returns the process-wide capability table: the
// default platform's features minus the comma-separated features listed in
// LSC_DISABLE_FEATURES.
func DefaultCapabilities() Capabilities {
	defaultOnce.Do(resolveDefault)
	return defaultCaps
}

// DefaultError reports a problem found while resolving the environment
// (unknown platform or feature name). The defaults fall back to "xe2"
// and ignore unknown features.
func DefaultError() error {
	defaultOnce.Do(resolveDefault)
	return defaultErr
}

func parseFeatureList(s string) ([]Feature, error) {
	var out []Feature
	var firstErr error
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := ParseFeature(part)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out = append(out, f)
	}
	return out, firstErr
}
