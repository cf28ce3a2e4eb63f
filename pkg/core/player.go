package core

import (
	"fmt"
	"strings"
	"time"
)

// ContractStatus describes a player's current contractual situation.
type ContractStatus string

const (
	ContractFreeAgent ContractStatus = "free_agent"
	ContractUnder     ContractStatus = "under_contract"
	ContractLoan      ContractStatus = "loan"
	ContractYouth     ContractStatus = "youth"
)

// ParseContractStatus maps an external string to a ContractStatus.
// Unknown values return false so callers can fall back to a no-op filter.
func ParseContractStatus(s string) (ContractStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free_agent", "free agent", "free":
		return ContractFreeAgent, true
	case "under_contract", "under contract", "contracted":
		return ContractUnder, true
	case "loan", "on loan":
		return ContractLoan, true
	case "youth", "youth_contract", "youth contract":
		return ContractYouth, true
	}
	return "", false
}

// PrivateIDPrefix marks player ids that originate from the locally
// maintained private catalog rather than the public corpus.
const PrivateIDPrefix = "private-"

// Player represents a single scoutable player. Records are populated by
// external import tooling and are read-only inside the search pipeline.
//
// Rating fields are pointers because a freshly added private player may not
// have been assessed yet; EffectiveRating folds the absence into a zero.
type Player struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Club            string         `json:"club"`
	Age             int            `json:"age"`
	Positions       []string       `json:"positions"`
	Nationality     string         `json:"nationality"`
	Region          string         `json:"region"`
	Contract        ContractStatus `json:"contract_status"`
	ContractExpiry  *time.Time     `json:"contract_expiry,omitempty"`
	PrimaryRating   *int           `json:"primary_rating,omitempty"`
	PotentialRating *int           `json:"potential_rating,omitempty"`
	Private         bool           `json:"private"`
}

// EffectiveRating returns the rating used for position-query ranking:
// the primary rating when assessed, the potential rating as a fallback,
// and zero when neither exists.
func (p Player) EffectiveRating() int {
	if p.PrimaryRating != nil {
		return *p.PrimaryRating
	}
	if p.PotentialRating != nil {
		return *p.PotentialRating
	}
	return 0
}

// IsPrivate reports whether the record belongs to the private catalog,
// either via the explicit flag or the reserved id prefix.
func (p Player) IsPrivate() bool {
	return p.Private || strings.HasPrefix(p.ID, PrivateIDPrefix)
}

// NormalizedID folds private and public ids into a single id space so the
// aggregator can deduplicate across sources.
func (p Player) NormalizedID() string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(p.ID)), PrivateIDPrefix)
}

// IdentityKey is a fallback identity for dedup when a private record and a
// remote record describe the same logical player under different ids.
// Name plus club is the same denormalized join the Team lookup uses.
func (p Player) IdentityKey() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.Club))
}

// Validate checks the invariants external importers must uphold.
func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player has no id")
	}
	if len(p.Positions) == 0 {
		return fmt.Errorf("player %s: positions must not be empty", p.ID)
	}
	for _, pos := range p.Positions {
		if !KnownPositionCode(pos) {
			return fmt.Errorf("player %s: unrecognized position code %q", p.ID, pos)
		}
	}
	return nil
}

// Team is the parent record for a club. Name is the join key back to
// Player.Club; the match is a denormalized case-sensitive string compare,
// not a foreign key.
type Team struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}
