// Package aggregate merges private catalog matches with remote search
// results into a single deduplicated list and exposes capped views of it.
package aggregate

import "github.com/scoutdeck/scoutdeck/pkg/core"

// Default caps for the two presentation contexts. The compact cap suits
// header-style dropdowns, the expanded cap the full search surface.
const (
	DefaultCompactCap  = 5
	DefaultExpandedCap = 8
)

// Aggregator merges and trims result lists.
type Aggregator struct {
	CompactCap  int
	ExpandedCap int
}

// New returns an Aggregator with the default caps.
func New() *Aggregator {
	return &Aggregator{
		CompactCap:  DefaultCompactCap,
		ExpandedCap: DefaultExpandedCap,
	}
}

// Merge places private matches ahead of remote results and drops remote
// entries that resolve to an already-seen logical player. Identity is the
// normalized id first, with a name+club fallback for private records whose
// id lives in a different id space than the public corpus.
func (a *Aggregator) Merge(private, remote []core.Player) []core.Player {
	merged := make([]core.Player, 0, len(private)+len(remote))
	seenIDs := make(map[string]struct{}, len(private)+len(remote))
	seenIdentities := make(map[string]struct{}, len(private))

	for _, p := range private {
		id := p.NormalizedID()
		if _, dup := seenIDs[id]; dup {
			continue
		}
		seenIDs[id] = struct{}{}
		seenIdentities[p.IdentityKey()] = struct{}{}
		merged = append(merged, p)
	}

	for _, p := range remote {
		if _, dup := seenIDs[p.NormalizedID()]; dup {
			continue
		}
		if _, dup := seenIdentities[p.IdentityKey()]; dup {
			// Same logical player as a private record; the private copy wins.
			continue
		}
		seenIDs[p.NormalizedID()] = struct{}{}
		merged = append(merged, p)
	}

	return merged
}

// Cap returns the first n players. The capped view is always a strict
// prefix of the input, so it can never disagree with the uncapped list.
func (a *Aggregator) Cap(players []core.Player, n int) []core.Player {
	if n < 0 {
		n = 0
	}
	if n > len(players) {
		n = len(players)
	}
	return players[:n]
}

// Compact returns the compact-context view of players.
func (a *Aggregator) Compact(players []core.Player) []core.Player {
	return a.Cap(players, a.CompactCap)
}

// Expanded returns the expanded-context view of players.
func (a *Aggregator) Expanded(players []core.Player) []core.Player {
	return a.Cap(players, a.ExpandedCap)
}
