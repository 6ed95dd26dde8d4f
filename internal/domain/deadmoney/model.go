package deadmoney

import (
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// Record is the dead-money consequence of one release. Exactly one record
// exists per released contract; it is immutable once written.
type Record struct {
	ID                 string
	DynastyID          string
	TeamID             string
	PlayerID           string
	ContractID         string
	Season             int
	June1              bool
	CurrentYear        money.Cents
	NextYear           money.Cents
	BonusComponent     money.Cents
	GuaranteeComponent money.Cents
	CreatedAt          time.Time
}

// Total is the full charge across both seasons of a June-1 split.
func (r Record) Total() money.Cents {
	return r.CurrentYear + r.NextYear
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("dead money record id is required")
	}
	if r.DynastyID == "" {
		return fmt.Errorf("dead money dynasty id is required")
	}
	if r.ContractID == "" {
		return fmt.Errorf("dead money contract id is required")
	}
	if r.CurrentYear < 0 || r.NextYear < 0 {
		return fmt.Errorf("dead money amounts cannot be negative")
	}
	if !r.June1 && r.NextYear != 0 {
		return fmt.Errorf("next-year dead money requires a June 1 designation")
	}
	return nil
}

// ChargeFor returns the portion of this record charged against the given
// season: the current-year amount in the release season and, for June-1
// releases, the deferred amount the season after.
func (r Record) ChargeFor(season int) money.Cents {
	switch season {
	case r.Season:
		return r.CurrentYear
	case r.Season + 1:
		return r.NextYear
	default:
		return 0
	}
}
