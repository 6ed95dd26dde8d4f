package capstate

import (
	"fmt"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// RosterMode selects the cap-counting rule in effect.
type RosterMode string

const (
	// ModeTop51 counts only the 51 highest cap hits (offseason rule).
	ModeTop51 RosterMode = "TOP51"
	// ModeRegular counts the full roster (in-season 53-man rule).
	ModeRegular RosterMode = "REGULAR"
)

// Top51Count is the number of cap hits counted under ModeTop51.
const Top51Count = 51

// TeamCapState is one team's cap position for one season of one dynasty.
// The committed/dead-money totals are derived from the underlying contract
// rows and are recomputed at every transaction commit, never hand-patched.
type TeamCapState struct {
	DynastyID          string
	TeamID             string
	Season             int
	CapLimit           money.Cents
	Carryover          money.Cents
	CommittedTotal     money.Cents
	DeadMoneyTotal     money.Cents
	IncentivesTotal    money.Cents
	PracticeSquadTotal money.Cents
	RosterMode         RosterMode
}

func (s TeamCapState) Validate() error {
	if s.DynastyID == "" {
		return fmt.Errorf("cap state dynasty id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("cap state team id is required")
	}
	if s.Season <= 0 {
		return fmt.Errorf("cap state season is required")
	}
	switch s.RosterMode {
	case ModeTop51, ModeRegular:
	default:
		return fmt.Errorf("unknown roster mode %q", s.RosterMode)
	}
	return nil
}
