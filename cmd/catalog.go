package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/config"
)

// CatalogCommand creates the catalog command
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the local player catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog players",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Only show privately added players",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return listCatalog(c.String("config"), c.Bool("private"))
				},
			},
			{
				Name:  "stats",
				Usage: "Show catalog statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return catalogStats(c.String("config"))
				},
			},
			{
				Name:  "watch",
				Usage: "Watch the snapshot file and reload the catalog on changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return watchCatalog(ctx, c.String("config"))
				},
			},
		},
	}
}

func listCatalog(configPath string, privateOnly bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)
	if !cat.Loaded() {
		fmt.Println("Catalog is still loading.")
		return nil
	}

	players := cat.All()
	if privateOnly {
		players = cat.PrivatePlayers()
		renderTitle("private players")
	} else {
		renderTitle("catalog players")
	}
	renderPlayers(players, cat)
	return nil
}

func catalogStats(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)
	if !cat.Loaded() {
		fmt.Println("Catalog is still loading.")
		return nil
	}

	renderTitle("catalog stats")
	fmt.Printf("Players:         %d\n", cat.Size())
	fmt.Printf("Private players: %d\n", len(cat.PrivatePlayers()))
	fmt.Printf("Snapshot:        %s\n", cfg.CatalogPath)
	return nil
}

func watchCatalog(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)
	fmt.Printf("Watching %s. Press Ctrl+C to stop.\n", cfg.CatalogPath)
	return catalog.Watch(ctx, cat, cfg.CatalogPath)
}
