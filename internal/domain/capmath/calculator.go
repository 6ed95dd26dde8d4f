// Package capmath holds the pure cap arithmetic. Nothing here touches
// storage or keeps state; callers pass fully-resolved values in and get
// deterministic numbers back. All amounts are integer cents.
package capmath

import (
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// DefaultProrationCapYears is the maximum amortization window for a
// signing or conversion bonus.
const DefaultProrationCapYears = 5

// DefaultSpendingFloorBps is the league minimum cash spend: 89% of the
// cap-limit sum over a rolling four-year window.
const DefaultSpendingFloorBps = 8900

// ProrationYears is the amortization span for a bonus on a contract of the
// given length.
func ProrationYears(contractYears, capYears int) int {
	if capYears <= 0 {
		capYears = DefaultProrationCapYears
	}
	if contractYears < capYears {
		return contractYears
	}
	return capYears
}

// Proration is the annual signing-bonus charge: bonus / min(years, cap),
// floor division in cents. The fractional remainder is absorbed by the
// first proration year, see ProrationSchedule.
func Proration(bonus money.Cents, contractYears, capYears int) money.Cents {
	n := ProrationYears(contractYears, capYears)
	if n <= 0 {
		return 0
	}
	per, _ := money.SplitEven(bonus, n)
	return per
}

// ProrationSchedule spreads a bonus over min(years, cap) annual charges.
// The remainder cent(s) go to the first year so the schedule always sums
// to exactly the bonus.
func ProrationSchedule(bonus money.Cents, contractYears, capYears int) []money.Cents {
	n := ProrationYears(contractYears, capYears)
	if n <= 0 {
		return nil
	}
	per, rem := money.SplitEven(bonus, n)
	out := make([]money.Cents, n)
	for i := range out {
		out[i] = per
	}
	out[0] += rem
	return out
}

// CapSpace is the team's room under the cap. Negative is a legal value:
// it means the team is over, which is a compliance question, not an
// arithmetic error.
func CapSpace(s capstate.TeamCapState) money.Cents {
	return s.CapLimit + s.Carryover -
		(s.CommittedTotal + s.DeadMoneyTotal + s.IncentivesTotal + s.PracticeSquadTotal)
}

// CommittedTotal sums the season's cap hits across active contracts. Under
// the top-51 rule only the 51 largest hits count.
func CommittedTotal(contracts []contract.Contract, season int, mode capstate.RosterMode) money.Cents {
	hits := make([]money.Cents, 0, len(contracts))
	for _, c := range contracts {
		if !c.Active {
			continue
		}
		if d, ok := c.YearDetailFor(season); ok && !d.Voided {
			hits = append(hits, d.CapHit())
		}
	}

	if mode == capstate.ModeTop51 && len(hits) > capstate.Top51Count {
		sort.Slice(hits, func(i, j int) bool { return hits[i] > hits[j] })
		hits = hits[:capstate.Top51Count]
	}

	return money.Sum(hits...)
}

// DeadMoneyTotal is the dead-money charge a team carries in a season,
// including the deferred half of prior-season June-1 releases.
func DeadMoneyTotal(records []deadmoney.Record, season int) money.Cents {
	var total money.Cents
	for _, r := range records {
		total += r.ChargeFor(season)
	}
	return total
}

// DeadMoney computes the charge created by releasing a contract effective
// in releaseSeason.
//
// Standard release: every remaining year's bonus proration accelerates
// into the release year. June-1 designation: the release year keeps only
// its own scheduled proration and all later years defer into the next
// season. Outstanding fully-guaranteed salary accelerates into the release
// year either way. The designation shifts bonus timing, never guarantee
// timing, and never the total.
func DeadMoney(c contract.Contract, releaseSeason int, june1 bool) (current, next money.Cents) {
	var releaseYearBonus, laterYearsBonus, guarantees money.Cents

	for _, d := range c.YearDetails {
		if d.Voided || d.SeasonYear < releaseSeason {
			continue
		}
		if d.SeasonYear == releaseSeason {
			releaseYearBonus += d.BonusProrationRemaining()
		} else {
			laterYearsBonus += d.BonusProrationRemaining()
		}
		if d.Guaranteed && d.GuaranteeType == contract.GuaranteeFull {
			guarantees += d.BaseSalary
		}
	}

	if june1 {
		return releaseYearBonus + guarantees, laterYearsBonus
	}
	return releaseYearBonus + laterYearsBonus + guarantees, 0
}

// SpendingFloorShortfall returns how far cash spending fell below the
// floor ratio of cap limits over a window, or zero when the floor is met.
// Both slices must cover the same seasons in the same order.
func SpendingFloorShortfall(cashSpent, capLimits []money.Cents, floorBps int64) money.Cents {
	if floorBps <= 0 {
		floorBps = DefaultSpendingFloorBps
	}
	required := money.ApplyBasisPoints(money.Sum(capLimits...), floorBps)
	spent := money.Sum(cashSpent...)
	if spent >= required {
		return 0
	}
	return required - spent
}

// ValidateTransaction checks whether a proposed cap impact fits the team's
// current space. Pure check: it never mutates and never errors.
func ValidateTransaction(s capstate.TeamCapState, proposedImpact money.Cents) (bool, string) {
	space := CapSpace(s)
	if proposedImpact <= space {
		return true, ""
	}
	return false, fmt.Sprintf(
		"insufficient cap space: impact %s exceeds available %s by %s",
		proposedImpact, space, proposedImpact-space,
	)
}

// DeriveTeamCapState recomputes the derived totals from source rows. The
// cached columns on base are ignored; contract and dead-money rows are the
// single source of truth.
func DeriveTeamCapState(base capstate.TeamCapState, contracts []contract.Contract, records []deadmoney.Record) capstate.TeamCapState {
	out := base
	out.CommittedTotal = CommittedTotal(contracts, base.Season, base.RosterMode)
	out.DeadMoneyTotal = DeadMoneyTotal(records, base.Season)
	return out
}
