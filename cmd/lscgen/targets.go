package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/go-lsc/lsc"
)

// parsePlatforms resolves a comma-separated platform list. "all" selects
// every catalogued platform. Duplicates, including aliases of one
// platform, are planned once.
func parsePlatforms(s string) ([]lsc.Platform, error) {
	names := splitList(s)
	if len(names) == 0 {
		return nil, fmt.Errorf("no platforms specified")
	}
	if lo.Contains(names, "all") {
		names = lsc.AvailablePlatforms()
	}

	var platforms []lsc.Platform
	for _, name := range names {
		p, err := lsc.GetPlatform(name)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return lo.UniqBy(platforms, func(p lsc.Platform) string { return p.Name }), nil
}

// parseFeatures resolves a comma-separated feature list.
func parseFeatures(s string) ([]lsc.Feature, error) {
	var features []lsc.Feature
	for _, name := range splitList(s) {
		f, err := lsc.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.ToLower(strings.TrimSpace(p))
	})
	return lo.Compact(parts)
}

func joinNames(names []string) string {
	return strings.Join(names, ",")
}
