package core

import "strings"

// PositionFamily groups the synonyms users type when searching for a role.
// The tables below are the single source of truth for what counts as a
// "position-like" query and which short codes a Player record may carry.
type PositionFamily string

const (
	FamilyForward    PositionFamily = "forward"
	FamilyWing       PositionFamily = "wing"
	FamilyMidfield   PositionFamily = "midfield"
	FamilyDefense    PositionFamily = "defense"
	FamilyFullback   PositionFamily = "fullback"
	FamilyWingback   PositionFamily = "wingback"
	FamilyGoalkeeper PositionFamily = "goalkeeper"
)

// PositionKeywords maps each family to every keyword that should trigger
// rating-ordered ranking. Keywords are matched lowercase, either as an exact
// query or as a substring of the query.
var PositionKeywords = map[PositionFamily][]string{
	FamilyForward:    {"st", "cf", "striker", "forward"},
	FamilyWing:       {"lw", "rw", "winger", "wing"},
	FamilyMidfield:   {"cm", "cdm", "cam", "midfielder", "midfield"},
	FamilyDefense:    {"cb", "centre-back", "center-back", "defender", "defence", "defense"},
	FamilyFullback:   {"lb", "rb", "fullback", "full-back"},
	FamilyWingback:   {"lwb", "rwb", "wingback", "wing-back"},
	FamilyGoalkeeper: {"gk", "goalkeeper", "keeper"},
}

// positionCodes is the set of short codes valid in Player.Positions.
var positionCodes = map[string]PositionFamily{
	"st":  FamilyForward,
	"cf":  FamilyForward,
	"lw":  FamilyWing,
	"rw":  FamilyWing,
	"cm":  FamilyMidfield,
	"cdm": FamilyMidfield,
	"cam": FamilyMidfield,
	"cb":  FamilyDefense,
	"lb":  FamilyFullback,
	"rb":  FamilyFullback,
	"lwb": FamilyWingback,
	"rwb": FamilyWingback,
	"gk":  FamilyGoalkeeper,
}

// KnownPositionCode reports whether code is a recognized short position code.
func KnownPositionCode(code string) bool {
	_, ok := positionCodes[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// PositionFamilyFor returns the family a short code belongs to.
func PositionFamilyFor(code string) (PositionFamily, bool) {
	fam, ok := positionCodes[strings.ToLower(strings.TrimSpace(code))]
	return fam, ok
}

// IsPositionQuery reports whether the query should be treated as a position
// search: after lowercasing and trimming it must equal a keyword exactly or
// contain one as a substring.
func IsPositionQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, keywords := range PositionKeywords {
		for _, kw := range keywords {
			if q == kw || strings.Contains(q, kw) {
				return true
			}
		}
	}
	return false
}
