package tag

import (
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// Type distinguishes the two single-player designations a team controls.
type Type string

const (
	TypeFranchise  Type = "FRANCHISE"
	TypeTransition Type = "TRANSITION"
)

// Tag is one franchise or transition tag applied to a player for a season.
// Sequence counts consecutive tags on the same player by the same team.
type Tag struct {
	ID                  string
	DynastyID           string
	PlayerID            string
	TeamID              string
	Season              int
	Type                Type
	Position            string
	Salary              money.Cents
	Exclusive           bool
	Sequence            int
	TaggedAt            time.Time
	DeadlineAt          time.Time
	ExtensionDeadlineAt time.Time
	ContractID          string
}

func (t Tag) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tag id is required")
	}
	if t.DynastyID == "" {
		return fmt.Errorf("tag dynasty id is required")
	}
	if t.PlayerID == "" || t.TeamID == "" {
		return fmt.Errorf("tag player and team ids are required")
	}
	if t.Type != TypeFranchise && t.Type != TypeTransition {
		return fmt.Errorf("unknown tag type %q", t.Type)
	}
	if t.Sequence < 1 {
		return fmt.Errorf("tag sequence starts at 1")
	}
	if t.Salary <= 0 {
		return fmt.Errorf("tag salary must be positive")
	}
	return nil
}

// TenderLevel sets an RFA tender's base amount and draft compensation.
type TenderLevel string

const (
	TenderFirstRound          TenderLevel = "FIRST_ROUND"
	TenderSecondRound         TenderLevel = "SECOND_ROUND"
	TenderOriginalRound       TenderLevel = "ORIGINAL_ROUND"
	TenderRightOfFirstRefusal TenderLevel = "RIGHT_OF_FIRST_REFUSAL"
)

type TenderStatus string

const (
	TenderOffered   TenderStatus = "OFFERED"
	TenderAccepted  TenderStatus = "ACCEPTED"
	TenderMatched   TenderStatus = "MATCHED"
	TenderWithdrawn TenderStatus = "WITHDRAWN"
)

// Tender is a restricted-free-agent qualifying offer.
type Tender struct {
	ID                string
	DynastyID         string
	PlayerID          string
	TeamID            string
	Season            int
	Level             TenderLevel
	Amount            money.Cents
	CompensationRound int
	Status            TenderStatus
	OfferedAt         time.Time
	ContractID        string
}

func (t Tender) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tender id is required")
	}
	if t.DynastyID == "" {
		return fmt.Errorf("tender dynasty id is required")
	}
	if t.PlayerID == "" || t.TeamID == "" {
		return fmt.Errorf("tender player and team ids are required")
	}
	switch t.Level {
	case TenderFirstRound, TenderSecondRound, TenderOriginalRound, TenderRightOfFirstRefusal:
	default:
		return fmt.Errorf("unknown tender level %q", t.Level)
	}
	if t.Amount <= 0 {
		return fmt.Errorf("tender amount must be positive")
	}
	return nil
}
