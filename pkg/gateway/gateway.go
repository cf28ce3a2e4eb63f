// Package gateway defines the remote search contract and the decorators
// that give it the failure semantics the session relies on: transport and
// service errors are swallowed at this boundary and surface as zero
// results, never as errors the pipeline has to distinguish.
package gateway

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// MinQueryLength is the shortest query the remote service is asked about.
// Single-character queries are defined to produce no remote results, which
// avoids degenerate fan-out on the first keystroke.
const MinQueryLength = 2

// Searcher is the remote full-text search contract. Implementations return
// players ordered by their own relevance scoring, at most limit of them.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]core.Player, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, limit int) ([]core.Player, error)

func (f SearcherFunc) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	return f(ctx, query, limit)
}

// resilientSearcher enforces the boundary contract: short queries yield no
// results, and failures of the inner searcher degrade to an empty list.
type resilientSearcher struct {
	inner  Searcher
	logger *log.Logger
}

// NewResilient wraps inner with the gateway failure semantics. The error
// itself is logged so operators can still tell outages from empty result
// sets; callers cannot and should not.
func NewResilient(inner Searcher) Searcher {
	return &resilientSearcher{
		inner:  inner,
		logger: log.ForComponent("gateway"),
	}
}

func (r *resilientSearcher) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}

	players, err := r.inner.Search(ctx, query, limit)
	if err != nil {
		r.logger.Warnf("remote search failed, returning no results: %v", err)
		return nil, nil
	}
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}
