// Package index maintains a local FTS5 corpus of public players. It
// implements the same search contract as the remote gateway, which lets
// the tool run fully offline: the session neither knows nor cares whether
// relevance-ordered results came from the hosted service or this index.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// Index is a SQLite-backed player corpus with full-text search.
type Index struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (and initializes if needed) the corpus index at dbPath.
func Open(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	idx := &Index{db: db, logger: log.ForComponent("index")}
	if err := idx.initializeSchema(); err != nil {
		return nil, fmt.Errorf("initializing index schema: %w", err)
	}
	return idx, nil
}

func (i *Index) initializeSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			record TEXT NOT NULL,
			indexed_at DATETIME NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS players_fts USING fts5(
			id UNINDEXED,
			name,
			club,
			nationality,
			positions
		)`,
	}
	for _, stmt := range statements {
		if _, err := i.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Ingest stores players in the corpus, replacing records that share an id.
// The full record is kept as JSON alongside the FTS columns so search can
// return complete players without a second lookup.
func (i *Index) Ingest(players []core.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				i.logger.Warnf("rolling back ingest transaction: %v", err)
			}
		}
	}()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO players (id, record, indexed_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			i.logger.Warnf("closing statement: %v", err)
		}
	}()

	delFTS, err := tx.Prepare(`DELETE FROM players_fts WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing FTS delete statement: %w", err)
	}
	defer func() {
		if err := delFTS.Close(); err != nil {
			i.logger.Warnf("closing FTS delete statement: %v", err)
		}
	}()

	insFTS, err := tx.Prepare(`INSERT INTO players_fts (id, name, club, nationality, positions) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing FTS insert statement: %w", err)
	}
	defer func() {
		if err := insFTS.Close(); err != nil {
			i.logger.Warnf("closing FTS insert statement: %v", err)
		}
	}()

	now := time.Now()
	for _, p := range players {
		record, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling player %s: %w", p.ID, err)
		}
		if _, err := stmt.Exec(p.ID, string(record), now); err != nil {
			return fmt.Errorf("inserting player %s: %w", p.ID, err)
		}
		if _, err := delFTS.Exec(p.ID); err != nil {
			return fmt.Errorf("removing stale FTS row for %s: %w", p.ID, err)
		}
		positions := ""
		for idx, pos := range p.Positions {
			if idx > 0 {
				positions += " "
			}
			positions += pos
		}
		if _, err := insFTS.Exec(p.ID, p.Name, p.Club, p.Nationality, positions); err != nil {
			return fmt.Errorf("inserting player %s into FTS: %w", p.ID, err)
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// Search implements the gateway search contract over the local corpus,
// ordered by bm25 relevance.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT p.record
		FROM players p
		JOIN players_fts fts ON p.id = fts.id
		WHERE players_fts MATCH ?
		ORDER BY bm25(players_fts)
		LIMIT ?`, ftsPrefixQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			i.logger.Warnf("closing rows: %v", err)
		}
	}()

	var players []core.Player
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		var p core.Player
		if err := json.Unmarshal([]byte(record), &p); err != nil {
			return nil, fmt.Errorf("unmarshaling player record: %w", err)
		}
		players = append(players, p)
	}

	return players, rows.Err()
}

// Stats returns corpus-level counters for the CLI.
func (i *Index) Stats() (map[string]any, error) {
	stats := make(map[string]any)

	var total int
	if err := i.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&total); err != nil {
		return nil, fmt.Errorf("counting players: %w", err)
	}
	stats["total_players"] = total

	var newest sql.NullString
	err := i.db.QueryRow("SELECT MAX(indexed_at) FROM players").Scan(&newest)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting newest index time: %w", err)
	}
	if newest.Valid {
		stats["last_indexed"] = newest.String
	}

	return stats, nil
}

// ftsPrefixQuery turns free text into a prefix-matching FTS5 query so that
// partial names behave like the hosted service's typeahead search. Each
// term is quoted to neutralize FTS5 operators in user input.
func ftsPrefixQuery(query string) string {
	var b []byte
	term := false
	for _, r := range query {
		switch {
		case r == ' ' || r == '\t':
			if term {
				b = append(b, []byte(`"* `)...)
				term = false
			}
		case r == '"':
			// Drop embedded quotes; they only matter to FTS5 syntax.
		default:
			if !term {
				b = append(b, '"')
				term = true
			}
			b = append(b, []byte(string(r))...)
		}
	}
	if term {
		b = append(b, []byte(`"*`)...)
	}
	return string(b)
}
