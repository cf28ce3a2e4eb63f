// Package ranking reorders candidates for position-like queries.
//
// Free-text queries pass through untouched: the remote service already
// orders its matches by relevance and the local catalog has a natural
// order. Only when the query names a position (per core.PositionKeywords)
// does rating take over as the sort key, since "show me strikers" is a
// quality question, not a text-match question.
package ranking

import (
	"sort"

	"github.com/scoutdeck/scoutdeck/pkg/core"
)

// Engine ranks candidate lists for a query.
type Engine struct{}

// New returns a ranking engine.
func New() *Engine {
	return &Engine{}
}

// Rank returns candidates ordered for display. Position-like queries sort
// descending by effective rating with a stable sort, so unrated players sink
// to the back while ties keep their arrival order. Any other query returns
// the input untouched.
func (e *Engine) Rank(candidates []core.Player, query string) []core.Player {
	if !core.IsPositionQuery(query) {
		return candidates
	}

	ranked := make([]core.Player, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EffectiveRating() > ranked[j].EffectiveRating()
	})
	return ranked
}
