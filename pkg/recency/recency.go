// Package recency maintains the small, order-preserving list of recently
// selected players. The list is deduplicated and bounded: re-selecting a
// player moves it to the front instead of appending, and the oldest entry
// falls off once the limit is reached. It persists across restarts through
// an injectable key-value store scoped per device.
package recency

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/core"
)

// DefaultLimit is how many recently selected players are kept.
const DefaultLimit = 3

// Tracker records and resolves recently selected player ids.
type Tracker struct {
	mu    sync.Mutex
	kv    KV
	key   string
	limit int
}

// NewTracker creates a tracker persisting under the given device/session
// id. A non-positive limit falls back to DefaultLimit.
func NewTracker(kv KV, deviceID string, limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Tracker{
		kv:    kv,
		key:   "recent:" + deviceID,
		limit: limit,
	}
}

// Record moves playerID to the front of the persisted list, removing any
// existing occurrence first and truncating to the limit. The read-modify-
// write cycle runs under the tracker mutex so concurrent selections from
// one session serialize.
func (t *Tracker) Record(playerID string) error {
	if playerID == "" {
		return fmt.Errorf("recording empty player id")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ids, err := t.load()
	if err != nil {
		return err
	}

	updated := make([]string, 0, len(ids)+1)
	updated = append(updated, playerID)
	for _, id := range ids {
		if id == playerID {
			continue
		}
		updated = append(updated, id)
	}
	if len(updated) > t.limit {
		updated = updated[:t.limit]
	}

	return t.save(updated)
}

// IDs returns the persisted ids, most recent first.
func (t *Tracker) IDs() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// Current resolves the persisted ids against the catalog, most recent
// first. Ids that no longer resolve (a private player later deleted, a
// stale import) are silently dropped.
func (t *Tracker) Current(c *catalog.Catalog) ([]core.Player, error) {
	ids, err := t.IDs()
	if err != nil {
		return nil, err
	}

	players := make([]core.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Lookup(id); ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (t *Tracker) load() ([]string, error) {
	value, ok, err := t.kv.Get(t.key)
	if err != nil {
		return nil, fmt.Errorf("loading recency list: %w", err)
	}
	if !ok || value == "" {
		return nil, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("unmarshaling recency list: %w", err)
	}
	return ids, nil
}

func (t *Tracker) save(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling recency list: %w", err)
	}
	if err := t.kv.Set(t.key, string(data)); err != nil {
		return fmt.Errorf("saving recency list: %w", err)
	}
	return nil
}
