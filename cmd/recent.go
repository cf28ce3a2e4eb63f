package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/scoutdeck/scoutdeck/pkg/config"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// RecentCommand creates the recent command
func RecentCommand() *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently viewed players",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showRecent(c.String("config"))
		},
	}
}

func showRecent(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)

	tracker, closeTracker, err := newTracker(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeTracker(); err != nil {
			log.ForComponent("cli").Warnf("closing recency store: %v", err)
		}
	}()

	players, err := tracker.Current(cat)
	if err != nil {
		return fmt.Errorf("loading recently viewed players: %w", err)
	}

	renderTitle("recently viewed")
	renderPlayers(players, cat)
	return nil
}
