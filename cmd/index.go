package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/scoutdeck/scoutdeck/pkg/config"
	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/index"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// IndexCommand creates the index command
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Manage the local full-text corpus index",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Index the public players from the catalog snapshot",
				Action: func(ctx context.Context, c *cli.Command) error {
					return buildIndex(c.String("config"))
				},
			},
			{
				Name:  "stats",
				Usage: "Show corpus index statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return indexStats(c.String("config"))
				},
			},
		},
	}
}

func buildIndex(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)
	if !cat.Loaded() {
		return fmt.Errorf("catalog snapshot not available at %s", cfg.CatalogPath)
	}

	idx, err := index.Open(indexPath(cfg))
	if err != nil {
		return fmt.Errorf("opening corpus index: %w", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			log.ForComponent("cli").Warnf("closing corpus index: %v", err)
		}
	}()

	// Private players stay out of the corpus: the session always sources
	// them from the catalog, and the merge prefers them over corpus rows.
	var public []core.Player
	for _, p := range cat.All() {
		if !p.IsPrivate() {
			public = append(public, p)
		}
	}

	if err := idx.Ingest(public); err != nil {
		return fmt.Errorf("indexing players: %w", err)
	}

	fmt.Printf("Indexed %d players into %s\n", len(public), indexPath(cfg))
	return nil
}

func indexStats(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	idx, err := index.Open(indexPath(cfg))
	if err != nil {
		return fmt.Errorf("opening corpus index: %w", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			log.ForComponent("cli").Warnf("closing corpus index: %v", err)
		}
	}()

	stats, err := idx.Stats()
	if err != nil {
		return fmt.Errorf("reading index stats: %w", err)
	}

	renderTitle("corpus index stats")
	for key, value := range stats {
		fmt.Printf("%-15s %v\n", key+":", value)
	}
	return nil
}
