package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-lsc/lsc"
)

type planOptions struct {
	Platforms []lsc.Platform
	Disabled  []lsc.Feature
	Workers   int
	Logger    *lsc.Logger
}

// SitePlan is the translation of one call site on one platform.
type SitePlan struct {
	Site       string
	Invocation lsc.Invocation
	Err        error
}

// Plan holds every call site of a manifest translated for one platform.
type Plan struct {
	Platform lsc.Platform
	Sites    []SitePlan
}

// Failed returns the sites that did not translate.
func (p Plan) Failed() []SitePlan {
	return lo.Filter(p.Sites, func(s SitePlan, _ int) bool { return s.Err != nil })
}

// planAll translates the manifest for each platform concurrently. Plans
// are returned in platform order. A site failing translation is recorded
// in its plan; only manifest errors abort planning.
func planAll(ctx context.Context, m *Manifest, opts planOptions) ([]Plan, error) {
	reqs, err := m.Requests()
	if err != nil {
		return nil, err
	}
	fences := make([]lsc.FenceRequest, len(m.Fences))
	for i, f := range m.Fences {
		if fences[i], err = f.Request(); err != nil {
			return nil, err
		}
	}

	plans := make([]Plan, len(opts.Platforms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range opts.Platforms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plans[i] = planPlatform(p, reqs, m.Fences, fences, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

func planPlatform(p lsc.Platform, reqs []lsc.Request, specs []FenceSpec, fences []lsc.FenceRequest, opts planOptions) Plan {
	topts := []lsc.Option{
		lsc.WithLogger(opts.Logger),
		lsc.WithWorkers(opts.Workers),
	}
	if len(opts.Disabled) > 0 {
		topts = append(topts, lsc.WithCapabilities(p.Capabilities().Without(opts.Disabled...)))
	}
	t := lsc.NewTranslator(p, topts...)
	defer t.Close()

	plan := Plan{Platform: p, Sites: make([]SitePlan, 0, len(reqs)+len(fences))}
	for i, r := range t.TranslateAll(reqs) {
		plan.Sites = append(plan.Sites, SitePlan{Site: reqs[i].Site, Invocation: r.Result.Invocation, Err: r.Err})
	}
	for i, f := range fences {
		inv, err := t.TranslateFence(f)
		if err != nil {
			err = fmt.Errorf("%s: %w", specs[i].Site, err)
		}
		plan.Sites = append(plan.Sites, SitePlan{Site: specs[i].Site, Invocation: inv, Err: err})
	}
	return plan
}

func countFailed(plans []Plan) int {
	return lo.SumBy(plans, func(p Plan) int { return len(p.Failed()) })
}

// writeReport prints one line per site and platform.
func writeReport(w io.Writer, plans []Plan) {
	for _, p := range plans {
		failed := len(p.Failed())
		fmt.Fprintf(w, "%s (%d sites, %d failed)\n", p.Platform.Name, len(p.Sites), failed)
		width := lo.Max(lo.Map(p.Sites, func(s SitePlan, _ int) int { return len(s.Site) }))
		for _, s := range p.Sites {
			if s.Err != nil {
				fmt.Fprintf(w, "  %-*s  error: %v\n", width, s.Site, trimSite(s.Err, s.Site))
				continue
			}
			fmt.Fprintf(w, "  %-*s  %s\n", width, s.Site, s.Invocation)
		}
	}
}

// writePlatforms prints the platform catalogue with its feature tables.
func writePlatforms(w io.Writer, platforms []lsc.Platform, disabled []lsc.Feature) {
	for _, p := range platforms {
		caps := p.Capabilities().Without(disabled...)
		names := lo.Map(caps.Features(), func(f lsc.Feature, _ int) string { return f.String() })
		fmt.Fprintf(w, "%-6s genx %-4d  simt %-2d  %s\n", p.Name, p.GenX, p.DefaultSIMT(), strings.Join(names, " "))
	}
}

// trimSite drops the "site: " prefix the translator adds to errors.
func trimSite(err error, site string) string {
	return strings.TrimPrefix(err.Error(), site+": ")
}
