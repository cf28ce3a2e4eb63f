package core

import (
	"strings"
	"time"
)

// AgeBand is the age facet of FilterCriteria.
type AgeBand string

const (
	AgeAll     AgeBand = "all"
	AgeUnder21 AgeBand = "under21"
	Age21To25  AgeBand = "21to25"
	AgeOver25  AgeBand = "over25"
)

// ParseAgeBand maps an external string to an AgeBand. Values outside the
// known set come back as AgeAll: facet values may originate from deep links
// and must degrade to a no-op filter rather than fail.
func ParseAgeBand(s string) AgeBand {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "under21", "u21", "<21":
		return AgeUnder21
	case "21to25", "21-25":
		return Age21To25
	case "over25", ">25":
		return AgeOver25
	default:
		return AgeAll
	}
}

// Matches reports whether age falls inside the band. Both band edges of
// 21to25 are inclusive.
func (b AgeBand) Matches(age int) bool {
	switch b {
	case AgeUnder21:
		return age < 21
	case Age21To25:
		return age >= 21 && age <= 25
	case AgeOver25:
		return age > 25
	default:
		return true
	}
}

// ContractFacet is the contract facet of FilterCriteria. It covers the four
// ContractStatus values plus the derived "expiring" window.
type ContractFacet string

const (
	ContractFacetAll      ContractFacet = "all"
	ContractFacetExpiring ContractFacet = "expiring"
)

// ExpiringWindowMonths is how far ahead a contract expiry may lie to count
// as "expiring soon".
const ExpiringWindowMonths = 6

// ExpiringCutoff returns the latest expiry date still considered "expiring
// soon" relative to now. The cutoff itself is inclusive.
func ExpiringCutoff(now time.Time) time.Time {
	return now.AddDate(0, ExpiringWindowMonths, 0)
}

// ParseContractFacet maps an external string to a ContractFacet, degrading
// unknown values to the no-op facet.
func ParseContractFacet(s string) ContractFacet {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "expiring" {
		return ContractFacetExpiring
	}
	if status, ok := ParseContractStatus(v); ok {
		return ContractFacet(status)
	}
	return ContractFacetAll
}

// Matches evaluates the facet against a player at the given time. The
// expiring predicate requires a known expiry that has not lapsed and lies
// within the expiring window of now; the boundary itself is included.
func (f ContractFacet) Matches(p Player, now time.Time) bool {
	switch f {
	case ContractFacetAll, "":
		return true
	case ContractFacetExpiring:
		if p.ContractExpiry == nil {
			return false
		}
		expiry := *p.ContractExpiry
		return !expiry.Before(now) && !expiry.After(ExpiringCutoff(now))
	default:
		return p.Contract == ContractStatus(f)
	}
}

// Regions is the fixed set of region facet values.
var Regions = []string{
	"Europe",
	"South America",
	"North America",
	"Africa",
	"Asia",
	"Oceania",
}

// ParseRegion maps an external string to a known region, degrading unknown
// values to the empty string (no-op facet).
func ParseRegion(s string) string {
	v := strings.TrimSpace(s)
	for _, r := range Regions {
		if strings.EqualFold(r, v) {
			return r
		}
	}
	return ""
}

// FilterCriteria is the full set of active facets. The zero value means no
// filtering at all.
type FilterCriteria struct {
	Age      AgeBand
	Contract ContractFacet
	Region   string
}

// Active reports whether at least one facet is narrower than "all".
func (c FilterCriteria) Active() bool {
	return (c.Age != "" && c.Age != AgeAll) ||
		(c.Contract != "" && c.Contract != ContractFacetAll) ||
		c.Region != ""
}
