package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scoutdeck/scoutdeck/pkg/catalog"
	"github.com/scoutdeck/scoutdeck/pkg/core"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	privateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

var titleCaser = cases.Title(language.English)

// renderTitle prints a styled section heading.
func renderTitle(text string) {
	fmt.Println(titleStyle.Render(titleCaser.String(text)))
}

// renderPlayers prints one line per player with rating, club and contract
// details, resolving the parent team for the club column when known.
func renderPlayers(players []core.Player, c *catalog.Catalog) {
	if len(players) == 0 {
		fmt.Println(noDataStyle.Render("No players."))
		return
	}

	for i, p := range players {
		name := nameStyle.Render(p.Name)
		if p.IsPrivate() {
			name += " " + privateStyle.Render("[private]")
		}

		club := p.Club
		if club == "" {
			club = "unattached"
		} else if _, ok := c.LookupByClub(p.Club); !ok {
			club += " (unknown club)"
		}

		details := []string{
			club,
			fmt.Sprintf("%d yrs", p.Age),
			strings.ToUpper(strings.Join(p.Positions, "/")),
			p.Nationality,
		}
		if rating := p.EffectiveRating(); rating > 0 {
			details = append(details, fmt.Sprintf("rating %d", rating))
		}
		if p.ContractExpiry != nil {
			details = append(details, "contract until "+p.ContractExpiry.Format("2006-01-02"))
		}

		fmt.Printf("%2d. %s\n    %s\n", i+1, name, metaStyle.Render(strings.Join(details, " · ")))
	}
}
