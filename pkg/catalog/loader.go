package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// Snapshot is the on-disk catalog format produced by the import tooling.
type Snapshot struct {
	Players []core.Player `json:"players"`
	Teams   []core.Team   `json:"teams"`
}

// LoadSnapshot reads a snapshot file and installs it into the catalog.
// Files ending in .zst are transparently decompressed; the import tooling
// compresses large exports.
//
// Invalid player records are skipped with a warning instead of failing the
// whole load, so one bad import row cannot blank the catalog.
func LoadSnapshot(c *Catalog, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog snapshot: %w", err)
	}
	logger := log.ForComponent("catalog")
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("closing snapshot file: %v", err)
		}
	}()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		reader = zr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading catalog snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("unmarshaling catalog snapshot: %w", err)
	}

	players := make([]core.Player, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if err := p.Validate(); err != nil {
			logger.Warnf("skipping invalid player record: %v", err)
			continue
		}
		players = append(players, p)
	}

	c.Replace(players, snapshot.Teams)
	logger.Debugf("loaded %d players and %d teams from %s", len(players), len(snapshot.Teams), path)
	return nil
}
