package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/gateway"
	"github.com/scoutdeck/scoutdeck/pkg/recency"
)

func intPtr(v int) *int { return &v }

func loadedCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Replace([]core.Player{
		{ID: "private-7", Name: "Alex Young", Club: "Millwall", Age: 22, Region: "Europe",
			Positions: []string{"st"}, Nationality: "England", Private: true,
			PotentialRating: intPtr(80), Contract: core.ContractUnder},
		{ID: "10", Name: "Luca Moretti", Club: "Empoli", Age: 27, Region: "Europe",
			Positions: []string{"gk"}, Nationality: "Italy", Contract: core.ContractLoan},
		{ID: "11", Name: "Jo Mensah", Club: "Asante", Age: 19, Region: "Africa",
			Positions: []string{"cm"}, Nationality: "Ghana", Contract: core.ContractYouth,
			PrimaryRating: intPtr(65)},
	}, []core.Team{{Name: "Millwall"}, {Name: "Empoli"}})
	return cat
}

func emptySearcher() gateway.Searcher {
	return gateway.SearcherFunc(func(ctx context.Context, query string, limit int) ([]core.Player, error) {
		return nil, nil
	})
}

// memoryKV mirrors the recency test helper; the session tests only need
// in-process persistence.
type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func newTestSession(cfg Config) (*Session, chan Snapshot) {
	updates := make(chan Snapshot, 32)
	cfg.OnUpdate = func(snap Snapshot) { updates <- snap }
	if cfg.Catalog == nil {
		cfg.Catalog = loadedCatalog()
	}
	if cfg.Searcher == nil {
		cfg.Searcher = emptySearcher()
	}
	return New(cfg), updates
}

func waitSnapshot(t *testing.T, updates chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-updates:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a session update")
		return Snapshot{}
	}
}

func resultIDs(players []core.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func TestStateTransitions(t *testing.T) {
	ctx := context.Background()
	sess, updates := newTestSession(Config{})

	sess.Open(ctx)
	waitSnapshot(t, updates)
	if got := sess.State(); got != StateIdle {
		t.Errorf("expected idle after open, got %s", got)
	}

	sess.SetQuery(ctx, "l")
	waitSnapshot(t, updates)
	if got := sess.State(); got != StateShortQuery {
		t.Errorf("expected short_query for one character, got %s", got)
	}

	sess.SetQuery(ctx, "luca")
	waitSnapshot(t, updates)
	waitSnapshot(t, updates) // remote merge
	if got := sess.State(); got != StateActiveQuery {
		t.Errorf("expected active_query for two or more characters, got %s", got)
	}

	sess.SetQuery(ctx, "")
	waitSnapshot(t, updates)
	if got := sess.State(); got != StateIdle {
		t.Errorf("expected idle for empty query, got %s", got)
	}

	sess.SetCriteria(ctx, core.FilterCriteria{Region: "Europe"})
	waitSnapshot(t, updates)
	if got := sess.State(); got != StateFiltersOnly {
		t.Errorf("expected filters_only with an active facet, got %s", got)
	}
}

func TestShortQueryLocalFiltering(t *testing.T) {
	ctx := context.Background()
	sess, updates := newTestSession(Config{})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetQuery(ctx, "l")
	waitSnapshot(t, updates)
	got := resultIDs(sess.Results())
	if len(got) != 2 || got[0] != "private-7" || got[1] != "10" {
		t.Errorf("expected [private-7 10] for %q, got %v", "l", got)
	}

	sess.SetQuery(ctx, "j")
	waitSnapshot(t, updates)
	got = resultIDs(sess.Results())
	if len(got) != 1 || got[0] != "11" {
		t.Errorf("expected [11] for %q, got %v", "j", got)
	}
}

func TestFiltersOnlyShowsFilteredCatalog(t *testing.T) {
	ctx := context.Background()
	sess, updates := newTestSession(Config{})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetCriteria(ctx, core.FilterCriteria{Region: "Europe"})
	snap := waitSnapshot(t, updates)

	if snap.State != StateFiltersOnly {
		t.Fatalf("expected filters_only, got %s", snap.State)
	}
	got := resultIDs(sess.Results())
	if len(got) != 2 || got[0] != "private-7" || got[1] != "10" {
		t.Errorf("expected catalog-ordered Europe players, got %v", got)
	}
}

func TestActiveQueryMergesPrivateAndRemote(t *testing.T) {
	ctx := context.Background()
	remote := []core.Player{
		{ID: "44", Name: "Alex Young", Club: "Millwall", Positions: []string{"st"}},
		{ID: "12", Name: "Young Boateng", Club: "Vitesse", Positions: []string{"cm"}},
	}
	sess, updates := newTestSession(Config{
		Searcher: gateway.SearcherFunc(func(ctx context.Context, query string, limit int) ([]core.Player, error) {
			return remote, nil
		}),
	})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetQuery(ctx, "young")
	first := waitSnapshot(t, updates)
	if got := resultIDs(sess.Results()); len(got) != 1 || got[0] != "private-7" {
		t.Fatalf("expected immediate private-only results, got %v", got)
	}
	if first.State != StateActiveQuery {
		t.Fatalf("expected active_query, got %s", first.State)
	}

	waitSnapshot(t, updates)
	got := resultIDs(sess.Results())
	if len(got) != 2 || got[0] != "private-7" || got[1] != "12" {
		t.Errorf("expected merged, deduplicated [private-7 12], got %v", got)
	}
}

// blockingSearcher parks each call until the test releases it, which makes
// response ordering fully controllable.
type blockingSearcher struct {
	mu    sync.Mutex
	calls map[string]chan []core.Player
	ready chan string
}

func newBlockingSearcher() *blockingSearcher {
	return &blockingSearcher{
		calls: make(map[string]chan []core.Player),
		ready: make(chan string, 8),
	}
}

func (b *blockingSearcher) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	b.mu.Lock()
	release := make(chan []core.Player, 1)
	b.calls[query] = release
	b.mu.Unlock()
	b.ready <- query

	select {
	case players := <-release:
		return players, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingSearcher) release(query string, players []core.Player) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[query] <- players
}

func TestStaleResponseSuppression(t *testing.T) {
	ctx := context.Background()
	searcher := newBlockingSearcher()
	sess, updates := newTestSession(Config{Searcher: searcher})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetQuery(ctx, "vieira")
	waitSnapshot(t, updates)
	<-searcher.ready

	sess.SetQuery(ctx, "zidane")
	waitSnapshot(t, updates)
	<-searcher.ready

	// The newer query resolves first and must win.
	searcher.release("zidane", []core.Player{{ID: "z1", Name: "Zinedine", Positions: []string{"cam"}}})
	waitSnapshot(t, updates)
	if got := resultIDs(sess.Results()); len(got) != 1 || got[0] != "z1" {
		t.Fatalf("expected zidane results, got %v", got)
	}

	// The older query resolves late; its results must be discarded.
	searcher.release("vieira", []core.Player{{ID: "v1", Name: "Patrick", Positions: []string{"cdm"}}})
	time.Sleep(50 * time.Millisecond)

	if got := resultIDs(sess.Results()); len(got) != 1 || got[0] != "z1" {
		t.Errorf("stale response leaked into results: %v", got)
	}
	select {
	case snap := <-updates:
		t.Errorf("stale response must not notify, got snapshot for %q", snap.Query)
	default:
	}
}

func TestLoadingCatalogSuppressesPipeline(t *testing.T) {
	ctx := context.Background()
	called := false
	sess, updates := newTestSession(Config{
		Catalog: catalog.New(), // never loaded
		Searcher: gateway.SearcherFunc(func(ctx context.Context, query string, limit int) ([]core.Player, error) {
			called = true
			return nil, nil
		}),
	})

	sess.Open(ctx)
	waitSnapshot(t, updates)
	sess.SetQuery(ctx, "young")
	snap := waitSnapshot(t, updates)

	if !snap.Loading {
		t.Error("expected loading flag while the catalog has no snapshot")
	}
	if snap.Total != 0 {
		t.Errorf("expected no results while loading, got %d", snap.Total)
	}
	if called {
		t.Error("remote gateway must not be queried against a placeholder catalog")
	}
}

func TestSelectRecordsRecencyAndFiresCallback(t *testing.T) {
	ctx := context.Background()
	tracker := recency.NewTracker(newMemoryKV(), "test-device", 3)

	var selected core.Player
	sess, updates := newTestSession(Config{
		Recency:  tracker,
		OnSelect: func(p core.Player) { selected = p },
	})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	if err := sess.Select("10"); err != nil {
		t.Fatalf("selecting player: %v", err)
	}
	if selected.ID != "10" {
		t.Errorf("expected selection callback with player 10, got %q", selected.ID)
	}

	recent, err := sess.Recent()
	if err != nil {
		t.Fatalf("loading recent players: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "10" {
		t.Errorf("expected [10] in recency, got %v", resultIDs(recent))
	}

	if err := sess.Select("does-not-exist"); err == nil {
		t.Error("expected error selecting an unknown player")
	}
}

func TestCloseClearsQueryKeepsCriteria(t *testing.T) {
	ctx := context.Background()
	sess, updates := newTestSession(Config{})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	criteria := core.FilterCriteria{Age: core.AgeUnder21}
	sess.SetCriteria(ctx, criteria)
	waitSnapshot(t, updates)
	sess.SetQuery(ctx, "young")
	waitSnapshot(t, updates)

	sess.Close()

	snap := sess.Snapshot()
	if snap.Query != "" {
		t.Errorf("expected cleared query after close, got %q", snap.Query)
	}
	if snap.Total != 0 {
		t.Errorf("expected no results after close, got %d", snap.Total)
	}
	if got := sess.Criteria(); got != criteria {
		t.Errorf("facet criteria must persist across close, got %+v", got)
	}
}

func TestQuickFilterCallback(t *testing.T) {
	var gotFacet, gotValue string
	sess, _ := newTestSession(Config{
		OnQuickFilter: func(facet, value string) {
			gotFacet, gotValue = facet, value
		},
	})

	sess.QuickFilter("contract", "free_agent")
	if gotFacet != "contract" || gotValue != "free_agent" {
		t.Errorf("expected callback with contract/free_agent, got %s/%s", gotFacet, gotValue)
	}
}

func TestPositionQueryRanksMergedResults(t *testing.T) {
	ctx := context.Background()
	remote := []core.Player{
		{ID: "20", Name: "Striker One", Positions: []string{"st"}, PrimaryRating: intPtr(70)},
		{ID: "21", Name: "Striker Two", Positions: []string{"st"}, PrimaryRating: intPtr(90)},
	}
	sess, updates := newTestSession(Config{
		Searcher: gateway.SearcherFunc(func(ctx context.Context, query string, limit int) ([]core.Player, error) {
			return remote, nil
		}),
	})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetQuery(ctx, "striker")
	waitSnapshot(t, updates)
	waitSnapshot(t, updates)

	got := resultIDs(sess.Results())
	if len(got) != 2 || got[0] != "21" || got[1] != "20" {
		t.Errorf("expected rating-ordered [21 20], got %v", got)
	}
}

func TestCompactIsPrefixOfResults(t *testing.T) {
	ctx := context.Background()
	var remote []core.Player
	for i := 0; i < 12; i++ {
		remote = append(remote, core.Player{
			ID:        string(rune('a' + i)),
			Name:      "Player Vieira",
			Positions: []string{"cm"},
		})
	}
	sess, updates := newTestSession(Config{
		Searcher: gateway.SearcherFunc(func(ctx context.Context, query string, limit int) ([]core.Player, error) {
			return remote, nil
		}),
	})
	sess.Open(ctx)
	waitSnapshot(t, updates)

	sess.SetQuery(ctx, "vieira")
	waitSnapshot(t, updates)
	snap := waitSnapshot(t, updates)

	full := sess.Results()
	if snap.Total != len(full) {
		t.Errorf("snapshot total %d disagrees with result length %d", snap.Total, len(full))
	}
	compact := sess.Snapshot().Compact
	for i, p := range compact {
		if p.ID != full[i].ID {
			t.Fatalf("compact view is not a prefix at %d: %s vs %s", i, p.ID, full[i].ID)
		}
	}
	expanded := sess.Expanded()
	if len(expanded) < len(compact) {
		t.Errorf("expanded view smaller than compact: %d < %d", len(expanded), len(compact))
	}
	for i, p := range expanded {
		if p.ID != full[i].ID {
			t.Fatalf("expanded view is not a prefix at %d: %s vs %s", i, p.ID, full[i].ID)
		}
	}
}
