package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/scoutdeck/scoutdeck/pkg/config"
	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
	"github.com/scoutdeck/scoutdeck/pkg/session"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search players across the private catalog and the full corpus",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "age",
				Usage: "Age band facet (under21, 21to25, over25)",
			},
			&cli.StringFlag{
				Name:  "contract",
				Usage: "Contract facet (free_agent, under_contract, loan, youth, expiring)",
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "Region facet (Europe, South America, ...)",
			},
			&cli.BoolFlag{
				Name:  "expanded",
				Usage: "Show the expanded view instead of the compact one",
			},
			&cli.IntFlag{
				Name:  "pick",
				Usage: "Select result N after searching (records it as recently viewed)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			criteria := core.FilterCriteria{
				Age:      core.ParseAgeBand(c.String("age")),
				Contract: core.ParseContractFacet(c.String("contract")),
				Region:   core.ParseRegion(c.String("region")),
			}
			return runSearch(ctx, c.String("config"), c.Args().First(), criteria, c.Bool("expanded"), c.Int("pick"))
		},
	}
}

func runSearch(ctx context.Context, configPath, query string, criteria core.FilterCriteria, expanded bool, pick int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)

	searcher, closeSearcher, err := newSearcher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSearcher(); err != nil {
			log.ForComponent("cli").Warnf("closing searcher: %v", err)
		}
	}()

	tracker, closeTracker, err := newTracker(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeTracker(); err != nil {
			log.ForComponent("cli").Warnf("closing recency store: %v", err)
		}
	}()

	// Every session event notifies exactly once; the remote response adds
	// one more notification after it lands. Receiving in lockstep below
	// gives the final snapshot for this one-shot invocation.
	updates := make(chan session.Snapshot, 16)
	sess := session.New(session.Config{
		Catalog:     cat,
		Searcher:    searcher,
		Recency:     tracker,
		RemoteLimit: cfg.Search.RemoteLimit,
		CompactCap:  cfg.Search.CompactCap,
		ExpandedCap: cfg.Search.ExpandedCap,
		OnSelect: func(p core.Player) {
			fmt.Printf("\nSelected %s (%s)\n", p.Name, p.ID)
		},
		OnUpdate: func(snap session.Snapshot) {
			updates <- snap
		},
	})

	sess.Open(ctx)
	<-updates
	sess.SetCriteria(ctx, criteria)
	<-updates
	sess.SetQuery(ctx, query)

	snap := <-updates
	if snap.State == session.StateActiveQuery {
		// The synchronous notification carries only private matches; the
		// remote merge arrives with the next one.
		snap = <-updates
	}

	if snap.Loading {
		fmt.Println("Catalog is still loading, try again shortly.")
		return nil
	}

	players := snap.Compact
	if expanded {
		players = sess.Expanded()
	}

	renderTitle(fmt.Sprintf("results for %q", query))
	renderPlayers(players, cat)
	if remaining := snap.Total - len(players); remaining > 0 {
		fmt.Printf("\n... and %d more (use --expanded)\n", remaining)
	}

	if pick > 0 {
		full := sess.Results()
		if pick > len(full) {
			return fmt.Errorf("pick %d out of range, only %d results", pick, len(full))
		}
		if err := sess.Select(full[pick-1].ID); err != nil {
			return fmt.Errorf("selecting result %d: %w", pick, err)
		}
	}

	sess.Close()
	return nil
}
