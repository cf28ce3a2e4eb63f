package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/scoutdeck/scoutdeck/pkg/config"
	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/gateway"
	"github.com/scoutdeck/scoutdeck/pkg/session"
)

// quickFilter is a named facet shortcut surfaced next to the search box.
type quickFilter struct {
	Name  string
	Facet string
	Value string
}

// quickFilters are the shortcuts the presentation layer offers instead of
// a free-text query.
var quickFilters = []quickFilter{
	{Name: "Free Agents", Facet: "contract", Value: "free_agent"},
	{Name: "Expiring Contracts", Facet: "contract", Value: "expiring"},
	{Name: "Under 21", Facet: "age", Value: "under21"},
	{Name: "South American Talent", Facet: "region", Value: "South America"},
}

// FiltersCommand creates the filters command
func FiltersCommand() *cli.Command {
	return &cli.Command{
		Name:  "filters",
		Usage: "List and run quick-filter shortcuts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available quick filters",
				Action: func(ctx context.Context, c *cli.Command) error {
					renderTitle("quick filters")
					for _, qf := range quickFilters {
						fmt.Printf("%-22s (%s = %s)\n", qf.Name, qf.Facet, qf.Value)
					}
					return nil
				},
			},
			{
				Name:      "run",
				Usage:     "Show the filtered catalog view for a quick filter",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runQuickFilter(ctx, c.String("config"), c.Args().First())
				},
			},
		},
	}
}

func runQuickFilter(ctx context.Context, configPath, name string) error {
	var picked *quickFilter
	for i := range quickFilters {
		if quickFilters[i].Name == name {
			picked = &quickFilters[i]
			break
		}
	}
	if picked == nil {
		return fmt.Errorf("unknown quick filter %q, try 'filters list'", name)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cat := loadCatalog(cfg)
	if !cat.Loaded() {
		fmt.Println("Catalog is still loading.")
		return nil
	}

	// Unknown facet values degrade to "all" by design; the shortcut table
	// above only holds known ones.
	criteria := core.FilterCriteria{}
	switch picked.Facet {
	case "age":
		criteria.Age = core.ParseAgeBand(picked.Value)
	case "contract":
		criteria.Contract = core.ParseContractFacet(picked.Value)
	case "region":
		criteria.Region = core.ParseRegion(picked.Value)
	}

	sess := session.New(session.Config{
		Catalog:  cat,
		Searcher: gateway.SearcherFunc(func(ctx context.Context, q string, l int) ([]core.Player, error) {
			return nil, nil
		}),
		CompactCap:  cfg.Search.CompactCap,
		ExpandedCap: cfg.Search.ExpandedCap,
		OnQuickFilter: func(facet, value string) {
			fmt.Printf("Handing off to full-results view: %s = %s\n\n", facet, value)
		},
	})
	sess.Open(ctx)
	sess.QuickFilter(picked.Facet, picked.Value)
	sess.SetCriteria(ctx, criteria)

	renderTitle(picked.Name)
	renderPlayers(sess.Expanded(), cat)
	if total := len(sess.Results()); total > len(sess.Expanded()) {
		fmt.Printf("\n... and %d more\n", total-len(sess.Expanded()))
	}
	sess.Close()
	return nil
}
