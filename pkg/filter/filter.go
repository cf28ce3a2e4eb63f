// Package filter applies facet criteria to candidate player lists.
//
// The pipeline is a pure function: it never reorders candidates, only
// excludes them, and the facets commute because each one is an independent
// predicate joined by AND. The same pipeline runs for short-query local
// filtering, remote-backed searches and the filters-only catalog view.
package filter

import (
	"time"

	"github.com/scoutdeck/scoutdeck/pkg/core"
)

// Pipeline evaluates FilterCriteria against candidates. Clock is injectable
// so the expiring-contract window can be tested against a fixed time; a nil
// Clock uses time.Now.
type Pipeline struct {
	Clock func() time.Time
}

// New returns a Pipeline using the wall clock.
func New() *Pipeline {
	return &Pipeline{Clock: time.Now}
}

// Apply returns the candidates that satisfy every active facet, preserving
// input order.
func (p *Pipeline) Apply(candidates []core.Player, criteria core.FilterCriteria) []core.Player {
	if !criteria.Active() {
		return candidates
	}

	now := time.Now()
	if p.Clock != nil {
		now = p.Clock()
	}

	filtered := make([]core.Player, 0, len(candidates))
	for _, candidate := range candidates {
		if !criteria.Age.Matches(candidate.Age) {
			continue
		}
		if !criteria.Contract.Matches(candidate, now) {
			continue
		}
		if criteria.Region != "" && candidate.Region != criteria.Region {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}
