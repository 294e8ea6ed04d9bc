package lsc

import "slices"

// PlannedSite is a call site translated ahead of time, as emitted by
// lscgen into generated plan files.
type PlannedSite struct {
	Site      string
	Key       PrimitiveKey
	Primitive string

	// Call is the Invocation rendered with Invocation.String.
	Call string
}

// NewPlannedSite records the translation of site.
func NewPlannedSite(site string, inv Invocation) PlannedSite {
	return PlannedSite{Site: site, Key: inv.Key, Primitive: inv.Primitive, Call: inv.String()}
}

// LookupPlanned returns the entry of plan for site.
func LookupPlanned(plan []PlannedSite, site string) (PlannedSite, bool) {
	i := slices.IndexFunc(plan, func(p PlannedSite) bool { return p.Site == site })
	if i < 0 {
		return PlannedSite{}, false
	}
	return plan[i], true
}
