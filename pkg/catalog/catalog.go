// Package catalog holds the locally available player and team records:
// the public catalog subset plus privately added players. The catalog is
// read-only from the search pipeline's point of view; it is populated by
// external import tooling via snapshot files and replaced wholesale on
// reload.
package catalog

import (
	"sync"

	"github.com/scoutdeck/scoutdeck/pkg/core"
)

// Catalog is an in-memory snapshot of players and teams. The zero value is
// an empty, not-yet-loaded catalog; an empty result set while Loaded() is
// false means "still loading", not "no data".
type Catalog struct {
	mu      sync.RWMutex
	players []core.Player
	byID    map[string]core.Player
	teams   map[string]core.Team
	loaded  bool
}

// New returns an empty, unloaded catalog.
func New() *Catalog {
	return &Catalog{
		byID:  make(map[string]core.Player),
		teams: make(map[string]core.Team),
	}
}

// Replace swaps in a full snapshot and marks the catalog loaded.
func (c *Catalog) Replace(players []core.Player, teams []core.Team) {
	byID := make(map[string]core.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	byTeam := make(map[string]core.Team, len(teams))
	for _, t := range teams {
		byTeam[t.Name] = t
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.players = players
	c.byID = byID
	c.teams = byTeam
	c.loaded = true
}

// Loaded reports whether a snapshot has been installed yet.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// All returns a copy of every known player, in snapshot order. While the
// catalog is loading the result is empty; callers should consult Loaded()
// before treating that as "no results".
func (c *Catalog) All() []core.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.Player, len(c.players))
	copy(out, c.players)
	return out
}

// Lookup resolves a player by id.
func (c *Catalog) Lookup(id string) (core.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// LookupByClub resolves the parent team for a club name. The join is a
// case-sensitive string match on Team.Name, mirroring the denormalized
// Player.Club field.
func (c *Catalog) LookupByClub(clubName string) (core.Team, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.teams[clubName]
	return t, ok
}

// Size returns the number of players currently known.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.players)
}

// PrivatePlayers returns every player flagged private, in snapshot order.
func (c *Catalog) PrivatePlayers() []core.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []core.Player
	for _, p := range c.players {
		if p.IsPrivate() {
			out = append(out, p)
		}
	}
	return out
}
