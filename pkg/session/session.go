// Package session orchestrates the search pipeline. It owns the current
// query text, the active facet criteria and the open/closed surface state,
// and re-runs filter, ranking and aggregation on every input event. The
// presentation layer sits entirely outside: it feeds keystrokes and filter
// changes in, and receives snapshots and selection callbacks out.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/scoutdeck/scoutdeck/pkg/aggregate"
	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/filter"
	"github.com/scoutdeck/scoutdeck/pkg/gateway"
	"github.com/scoutdeck/scoutdeck/pkg/log"
	"github.com/scoutdeck/scoutdeck/pkg/ranking"
	"github.com/scoutdeck/scoutdeck/pkg/recency"
)

// State identifies what the session is currently showing.
type State string

const (
	// StateIdle: no query, no active facets.
	StateIdle State = "idle"
	// StateShortQuery: single-character query, local catalog filtering only.
	StateShortQuery State = "short_query"
	// StateActiveQuery: query long enough for the remote gateway.
	StateActiveQuery State = "active_query"
	// StateFiltersOnly: empty query with at least one active facet,
	// showing the filtered full catalog.
	StateFiltersOnly State = "filters_only"
)

// Snapshot is the session's presentable result state at a point in time.
type Snapshot struct {
	State   State
	Query   string
	Loading bool
	// Compact is the capped header view; always a prefix of the full list.
	Compact []core.Player
	// Total is the uncapped result count, for "view more" affordances.
	Total int
}

// Config wires a session to its collaborators.
type Config struct {
	Catalog  *catalog.Catalog
	Searcher gateway.Searcher
	Recency  *recency.Tracker

	// RemoteLimit is the result-count limit passed to the gateway.
	RemoteLimit int
	// CompactCap and ExpandedCap override the aggregator defaults when > 0.
	CompactCap  int
	ExpandedCap int

	// OnSelect fires when the user picks a result. Routing is external.
	OnSelect func(core.Player)
	// OnQuickFilter fires when the user picks a quick-filter shortcut,
	// for handoff to an external full-results view.
	OnQuickFilter func(facet, value string)
	// OnUpdate fires after the result set changes, including when an
	// asynchronous remote response lands. Called without locks held.
	OnUpdate func(Snapshot)
}

const defaultRemoteLimit = 25

// Session coordinates catalog, gateway, filters, ranking, aggregation and
// recency for one search surface.
type Session struct {
	mu sync.Mutex

	catalog  *catalog.Catalog
	searcher gateway.Searcher
	recent   *recency.Tracker
	pipeline *filter.Pipeline
	ranker   *ranking.Engine
	agg      *aggregate.Aggregator
	logger   *log.Logger

	remoteLimit   int
	onSelect      func(core.Player)
	onQuickFilter func(facet, value string)
	onUpdate      func(Snapshot)

	open     bool
	query    string
	criteria core.FilterCriteria

	// queryToken identifies the latest issued query. A remote response
	// carrying an older token is stale and gets discarded on arrival.
	queryToken uint64
	results    []core.Player
}

// New creates a session. Catalog and Searcher are required; everything
// else has working defaults.
func New(cfg Config) *Session {
	agg := aggregate.New()
	if cfg.CompactCap > 0 {
		agg.CompactCap = cfg.CompactCap
	}
	if cfg.ExpandedCap > 0 {
		agg.ExpandedCap = cfg.ExpandedCap
	}
	remoteLimit := cfg.RemoteLimit
	if remoteLimit <= 0 {
		remoteLimit = defaultRemoteLimit
	}
	return &Session{
		catalog:       cfg.Catalog,
		searcher:      cfg.Searcher,
		recent:        cfg.Recency,
		pipeline:      filter.New(),
		ranker:        ranking.New(),
		agg:           agg,
		logger:        log.ForComponent("session"),
		remoteLimit:   remoteLimit,
		onSelect:      cfg.OnSelect,
		onQuickFilter: cfg.OnQuickFilter,
		onUpdate:      cfg.OnUpdate,
	}
}

// Open marks the search surface open and re-runs the pipeline.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	s.open = true
	s.refreshLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Close resets the surface to idle: the transient query is cleared and any
// in-flight remote response is invalidated. Facet criteria and the recency
// list persist per their own lifecycles.
func (s *Session) Close() {
	s.mu.Lock()
	s.open = false
	s.query = ""
	s.results = nil
	s.queryToken++
	s.mu.Unlock()
}

// SetQuery updates the query text and re-runs the pipeline. For queries at
// or above the remote threshold the gateway call runs asynchronously; the
// snapshot is updated again when the response lands, unless a newer query
// superseded it.
func (s *Session) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = strings.TrimSpace(query)
	s.refreshLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// SetCriteria replaces the facet criteria and re-runs the pipeline.
func (s *Session) SetCriteria(ctx context.Context, criteria core.FilterCriteria) {
	s.mu.Lock()
	s.criteria = criteria
	s.refreshLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Criteria returns the active facet criteria.
func (s *Session) Criteria() core.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// State computes the current state from query and criteria.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	queryLen := utf8.RuneCountInString(s.query)
	switch {
	case queryLen >= gateway.MinQueryLength:
		return StateActiveQuery
	case queryLen == 1:
		return StateShortQuery
	case s.criteria.Active():
		return StateFiltersOnly
	default:
		return StateIdle
	}
}

// Snapshot returns the current presentable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:   s.stateLocked(),
		Query:   s.query,
		Loading: s.catalog != nil && !s.catalog.Loaded(),
		Compact: s.agg.Compact(s.results),
		Total:   len(s.results),
	}
}

// Results returns the full ranked, filtered, deduplicated result list.
func (s *Session) Results() []core.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Player, len(s.results))
	copy(out, s.results)
	return out
}

// Expanded returns the expanded-context view of the result list.
func (s *Session) Expanded() []core.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agg.Expanded(s.results)
}

// refreshLocked re-runs the pipeline for the current state. The caller
// holds the mutex.
func (s *Session) refreshLocked(ctx context.Context) {
	// Never filter or rank a placeholder catalog; surface loading instead.
	if s.catalog == nil || !s.catalog.Loaded() {
		s.results = nil
		return
	}

	switch s.stateLocked() {
	case StateIdle:
		s.results = nil
	case StateShortQuery:
		s.results = s.process(s.localMatches(s.query), s.query)
	case StateFiltersOnly:
		s.results = s.process(s.catalog.All(), "")
	case StateActiveQuery:
		private := s.privateMatches(s.query)
		// Show private matches immediately; remote results merge in when
		// the gateway responds.
		s.results = s.process(private, s.query)
		s.queryToken++
		go s.remoteSearch(ctx, s.query, private, s.queryToken)
	}
}

// remoteSearch runs the gateway call for query and merges its output with
// the already-known private matches, unless the session has moved on to a
// newer query in the meantime.
func (s *Session) remoteSearch(ctx context.Context, query string, private []core.Player, token uint64) {
	remote, err := s.searcher.Search(ctx, query, s.remoteLimit)
	if err != nil {
		// Gateway implementations swallow failures; an error here means a
		// raw searcher was wired in without the resilient wrapper.
		s.logger.Warnf("remote search failed: %v", err)
		remote = nil
	}

	s.mu.Lock()
	if token != s.queryToken {
		s.mu.Unlock()
		s.logger.Debugf("discarding stale response for query %q", query)
		return
	}
	merged := s.agg.Merge(private, remote)
	s.results = s.process(merged, query)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// process runs merge output (or local candidates) through the filter and
// ranking stages. Aggregation caps are applied at snapshot time so the
// stored list stays uncapped.
func (s *Session) process(candidates []core.Player, query string) []core.Player {
	filtered := s.pipeline.Apply(candidates, s.criteria)
	return s.ranker.Rank(filtered, query)
}

// localMatches is the short-query fallback: substring filtering across
// name, club, position codes and nationality, plus exact id match.
func (s *Session) localMatches(query string) []core.Player {
	q := strings.ToLower(query)
	var out []core.Player
	for _, p := range s.catalog.All() {
		if matchesPlayer(p, q, query) {
			out = append(out, p)
		}
	}
	return out
}

func matchesPlayer(p core.Player, lowered, raw string) bool {
	if p.ID == raw {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), lowered) ||
		strings.Contains(strings.ToLower(p.Club), lowered) ||
		strings.Contains(strings.ToLower(p.Nationality), lowered) {
		return true
	}
	for _, pos := range p.Positions {
		if strings.Contains(strings.ToLower(pos), lowered) {
			return true
		}
	}
	return false
}

// privateMatches returns private players whose name contains the query.
func (s *Session) privateMatches(query string) []core.Player {
	q := strings.ToLower(query)
	var out []core.Player
	for _, p := range s.catalog.PrivatePlayers() {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Select records the chosen player in the recency list and hands it to the
// external selection callback.
func (s *Session) Select(playerID string) error {
	s.mu.Lock()
	player, ok := s.findLocked(playerID)
	s.mu.Unlock()
	if !ok {
		p, found := s.catalog.Lookup(playerID)
		if !found {
			return errPlayerNotFound(playerID)
		}
		player = p
	}

	if s.recent != nil {
		if err := s.recent.Record(player.ID); err != nil {
			return err
		}
	}
	if s.onSelect != nil {
		s.onSelect(player)
	}
	return nil
}

func errPlayerNotFound(id string) error {
	return fmt.Errorf("player %s not found", id)
}

func (s *Session) findLocked(playerID string) (core.Player, bool) {
	for _, p := range s.results {
		if p.ID == playerID {
			return p, true
		}
	}
	return core.Player{}, false
}

// Recent resolves the recency list against the catalog.
func (s *Session) Recent() ([]core.Player, error) {
	if s.recent == nil {
		return nil, nil
	}
	return s.recent.Current(s.catalog)
}

// QuickFilter fires the filter-navigation callback for a facet shortcut
// such as "Free Agents". The facet value is parsed defensively on the far
// side; unknown values degrade to "all".
func (s *Session) QuickFilter(facet, value string) {
	if s.onQuickFilter != nil {
		s.onQuickFilter(facet, value)
	}
}

func (s *Session) notify(snap Snapshot) {
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}
