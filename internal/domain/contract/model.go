package contract

import (
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// Kind classifies how a contract came to exist.
type Kind string

const (
	KindRookie        Kind = "ROOKIE"
	KindVeteran       Kind = "VETERAN"
	KindFranchiseTag  Kind = "FRANCHISE_TAG"
	KindTransitionTag Kind = "TRANSITION_TAG"
	KindExtension     Kind = "EXTENSION"
)

// GuaranteeType marks which trigger guarantees a contract year's salary.
type GuaranteeType string

const (
	GuaranteeFull   GuaranteeType = "FULL"
	GuaranteeInjury GuaranteeType = "INJURY"
	GuaranteeSkill  GuaranteeType = "SKILL"
	GuaranteeNone   GuaranteeType = "NONE"
)

// Contract is a player's multi-year financial commitment to a team. A
// released contract is voided, never deleted; its rows stay behind for
// dead-money audit.
type Contract struct {
	ID                    string
	DynastyID             string
	PlayerID              string
	TeamID                string
	Kind                  Kind
	StartYear             int
	EndYear               int
	Years                 int
	TotalValue            money.Cents
	SigningBonus          money.Cents
	SigningBonusProration money.Cents
	GuaranteedAtSigning   money.Cents
	InjuryGuarantee       money.Cents
	TotalGuarantee        money.Cents
	Active                bool
	SignedAt              time.Time
	VoidedAt              *time.Time

	YearDetails []YearDetail
}

// YearDetail is one (contract, season-year) row. Restructure conversions
// land in OptionBonusProration so the original signing-bonus schedule is
// never rewritten.
type YearDetail struct {
	ContractID            string
	YearIndex             int
	SeasonYear            int
	BaseSalary            money.Cents
	RosterBonus           money.Cents
	WorkoutBonus          money.Cents
	OptionBonus           money.Cents
	SigningBonusProration money.Cents
	OptionBonusProration  money.Cents
	Guaranteed            bool
	GuaranteeType         GuaranteeType
	CashPaid              money.Cents
	Voided                bool
}

// CapHit is the year's charge against the cap. A voided year charges
// nothing; its unamortized bonus shows up as dead money instead.
func (d YearDetail) CapHit() money.Cents {
	if d.Voided {
		return 0
	}
	return d.BaseSalary + d.RosterBonus + d.WorkoutBonus + d.OptionBonus +
		d.SigningBonusProration + d.OptionBonusProration
}

// BonusProrationRemaining is the unamortized bonus charge carried by this
// year across every proration schedule on the contract.
func (d YearDetail) BonusProrationRemaining() money.Cents {
	return d.SigningBonusProration + d.OptionBonusProration
}

func (c Contract) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("contract id is required")
	}
	if c.DynastyID == "" {
		return fmt.Errorf("contract dynasty id is required")
	}
	if c.PlayerID == "" {
		return fmt.Errorf("contract player id is required")
	}
	if c.TeamID == "" {
		return fmt.Errorf("contract team id is required")
	}
	if c.Years <= 0 {
		return fmt.Errorf("contract must cover at least one year")
	}
	if len(c.YearDetails) != c.Years {
		return fmt.Errorf("contract has %d year details, expected %d", len(c.YearDetails), c.Years)
	}
	if c.EndYear != c.StartYear+c.Years-1 {
		return fmt.Errorf("contract end year %d does not match start %d + %d years", c.EndYear, c.StartYear, c.Years)
	}
	switch c.Kind {
	case KindRookie, KindVeteran, KindFranchiseTag, KindTransitionTag, KindExtension:
	default:
		return fmt.Errorf("unknown contract kind %q", c.Kind)
	}
	return nil
}

// YearDetailFor returns the detail row for an absolute season year.
func (c Contract) YearDetailFor(seasonYear int) (YearDetail, bool) {
	for _, d := range c.YearDetails {
		if d.SeasonYear == seasonYear {
			return d, true
		}
	}
	return YearDetail{}, false
}

// RemainingDetails returns the non-voided rows at or after the given season.
func (c Contract) RemainingDetails(fromSeason int) []YearDetail {
	var out []YearDetail
	for _, d := range c.YearDetails {
		if d.SeasonYear >= fromSeason && !d.Voided {
			out = append(out, d)
		}
	}
	return out
}

// Clone deep-copies the contract including its year rows.
func (c Contract) Clone() Contract {
	out := c
	out.YearDetails = append([]YearDetail(nil), c.YearDetails...)
	if c.VoidedAt != nil {
		at := *c.VoidedAt
		out.VoidedAt = &at
	}
	return out
}
