package txlog

import (
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// Type is the transaction kind recorded in the audit log.
type Type string

const (
	TypeSign        Type = "SIGN"
	TypeExtension   Type = "EXTENSION"
	TypeRestructure Type = "RESTRUCTURE"
	TypeRelease     Type = "RELEASE"
	TypeTag         Type = "TAG"
	TypeTender      Type = "TENDER"
)

// Entry is one append-only audit record. Entries are never mutated or
// deleted; they are the sole mechanism for reconstructing how a team
// arrived at its cap number.
type Entry struct {
	ID               string
	DynastyID        string
	TeamID           string
	PlayerID         string
	ContractID       string
	Type             Type
	Season           int
	Date             time.Time
	CapImpact        money.Cents
	FutureImpacts    map[int]money.Cents
	CashImpact       money.Cents
	DeadMoneyCreated money.Cents
	Description      string
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("transaction log entry id is required")
	}
	if e.DynastyID == "" {
		return fmt.Errorf("transaction log dynasty id is required")
	}
	if e.TeamID == "" {
		return fmt.Errorf("transaction log team id is required")
	}
	switch e.Type {
	case TypeSign, TypeExtension, TypeRestructure, TypeRelease, TypeTag, TypeTender:
	default:
		return fmt.Errorf("unknown transaction type %q", e.Type)
	}
	if e.Season <= 0 {
		return fmt.Errorf("transaction log season is required")
	}
	return nil
}
