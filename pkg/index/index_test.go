package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/scoutdeck/scoutdeck/pkg/core"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("opening index: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Errorf("closing index: %v", err)
		}
	})
	return idx
}

func intPtr(v int) *int { return &v }

func corpus() []core.Player {
	return []core.Player{
		{ID: "44", Name: "Alex Young", Club: "Millwall", Age: 24,
			Positions: []string{"st"}, Nationality: "England", Region: "Europe",
			Contract: core.ContractUnder, PrimaryRating: intPtr(71)},
		{ID: "12", Name: "Young Boateng", Club: "Vitesse", Age: 19,
			Positions: []string{"cm"}, Nationality: "Ghana", Region: "Africa",
			Contract: core.ContractYouth, PotentialRating: intPtr(84)},
		{ID: "90", Name: "Luca Moretti", Club: "Empoli", Age: 27,
			Positions: []string{"gk"}, Nationality: "Italy", Region: "Europe",
			Contract: core.ContractLoan},
	}
}

func TestIngestAndSearchRoundTrip(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Ingest(corpus()); err != nil {
		t.Fatalf("ingesting corpus: %v", err)
	}

	players, err := idx.Search(context.Background(), "young", 10)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "young", len(players))
	}

	// The stored record must round-trip completely, ratings included.
	for _, p := range players {
		switch p.ID {
		case "44":
			if p.PrimaryRating == nil || *p.PrimaryRating != 71 {
				t.Errorf("player 44 lost its primary rating in the round trip")
			}
		case "12":
			if p.PotentialRating == nil || *p.PotentialRating != 84 {
				t.Errorf("player 12 lost its potential rating in the round trip")
			}
		default:
			t.Errorf("unexpected match %s", p.ID)
		}
	}
}

func TestSearchPrefixMatching(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Ingest(corpus()); err != nil {
		t.Fatalf("ingesting corpus: %v", err)
	}

	players, err := idx.Search(context.Background(), "mor", 10)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(players) != 1 || players[0].ID != "90" {
		t.Errorf("expected prefix search to find Moretti, got %v", players)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Ingest(corpus()); err != nil {
		t.Fatalf("ingesting corpus: %v", err)
	}

	players, err := idx.Search(context.Background(), "young", 1)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(players) != 1 {
		t.Errorf("expected limit 1 to cap results, got %d", len(players))
	}
}

func TestIngestReplacesExisting(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Ingest(corpus()); err != nil {
		t.Fatalf("ingesting corpus: %v", err)
	}

	updated := corpus()[0]
	updated.Club = "Leeds"
	if err := idx.Ingest([]core.Player{updated}); err != nil {
		t.Fatalf("re-ingesting player: %v", err)
	}

	players, err := idx.Search(context.Background(), "leeds", 10)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(players) != 1 || players[0].ID != "44" {
		t.Fatalf("expected updated club to be searchable, got %v", players)
	}

	stale, err := idx.Search(context.Background(), "millwall", 10)
	if err != nil {
		t.Fatalf("searching: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("expected stale FTS row to be gone, got %v", stale)
	}
}

func TestStats(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.Ingest(corpus()); err != nil {
		t.Fatalf("ingesting corpus: %v", err)
	}

	stats, err := idx.Stats()
	if err != nil {
		t.Fatalf("reading stats: %v", err)
	}
	if stats["total_players"] != 3 {
		t.Errorf("expected 3 players in stats, got %v", stats["total_players"])
	}
}

func TestFTSPrefixQueryEscaping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"young", `"young"*`},
		{"alex young", `"alex"* "young"*`},
		{`alex "young`, `"alex"* "young"*`},
		{"  spaced  ", `"spaced"*`},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ftsPrefixQuery(tt.input); got != tt.expected {
				t.Errorf("ftsPrefixQuery(%q): expected %q, got %q", tt.input, tt.expected, got)
			}
		})
	}
}
