package capmath

import (
	"testing"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// fourYearDeal is the reference contract: 4 years, $50M total, $25M signing
// bonus, flat $6.25M base salary. Proration is $6.25M per year.
func fourYearDeal() contract.Contract {
	bonus := money.FromDollars(25_000_000)
	base := money.FromDollars(6_250_000)
	schedule := ProrationSchedule(bonus, 4, DefaultProrationCapYears)

	c := contract.Contract{
		ID:                    "ct-ref",
		DynastyID:             "dyn-1",
		PlayerID:              "pl-1",
		TeamID:                "phi",
		Kind:                  contract.KindVeteran,
		StartYear:             2025,
		EndYear:               2028,
		Years:                 4,
		TotalValue:            money.FromDollars(50_000_000),
		SigningBonus:          bonus,
		SigningBonusProration: schedule[0],
		Active:                true,
	}
	for i := 0; i < 4; i++ {
		c.YearDetails = append(c.YearDetails, contract.YearDetail{
			ContractID:            c.ID,
			YearIndex:             i + 1,
			SeasonYear:            2025 + i,
			BaseSalary:            base,
			SigningBonusProration: schedule[i],
			GuaranteeType:         contract.GuaranteeNone,
			CashPaid:              base,
		})
	}
	c.YearDetails[0].CashPaid += bonus
	return c
}

func TestProrationSchedule_SumsToBonus(t *testing.T) {
	cases := []struct {
		bonus money.Cents
		years int
	}{
		{money.FromDollars(25_000_000), 4},
		{money.FromDollars(25_000_000), 7}, // capped at 5
		{money.Cents(1_000_000_03), 3},     // remainder cents
		{money.Cents(7), 5},
	}

	for _, tc := range cases {
		schedule := ProrationSchedule(tc.bonus, tc.years, DefaultProrationCapYears)
		n := ProrationYears(tc.years, DefaultProrationCapYears)
		if len(schedule) != n {
			t.Fatalf("bonus %d over %d years: schedule length %d, want %d", tc.bonus, tc.years, len(schedule), n)
		}
		if got := money.Sum(schedule...); got != tc.bonus {
			t.Fatalf("bonus %d over %d years: schedule sums to %d", tc.bonus, tc.years, got)
		}
		// remainder lands in year one, never later years
		for i := 1; i < len(schedule); i++ {
			if schedule[i] != schedule[1] {
				t.Fatalf("bonus %d: uneven tail year %d", tc.bonus, i)
			}
			if schedule[0] < schedule[i] {
				t.Fatalf("bonus %d: year one smaller than year %d", tc.bonus, i)
			}
		}
	}
}

func TestProration_CapsAtFiveYears(t *testing.T) {
	bonus := money.FromDollars(30_000_000)
	if got := Proration(bonus, 7, DefaultProrationCapYears); got != money.FromDollars(6_000_000) {
		t.Fatalf("7-year deal prorates over 5: got %s", got)
	}
	if got := Proration(bonus, 3, DefaultProrationCapYears); got != money.FromDollars(10_000_000) {
		t.Fatalf("3-year deal prorates over 3: got %s", got)
	}
}

func TestDeadMoney_StandardRelease(t *testing.T) {
	c := fourYearDeal()
	// released after year 2: years 2027 and 2028 remain
	current, next := DeadMoney(c, 2027, false)

	if current != money.FromDollars(12_500_000) {
		t.Fatalf("standard release dead money: got %s, want $12.5M", current)
	}
	if next != 0 {
		t.Fatalf("standard release defers nothing, got %s", next)
	}
}

func TestDeadMoney_June1Split(t *testing.T) {
	c := fourYearDeal()
	current, next := DeadMoney(c, 2027, true)

	if current != money.FromDollars(6_250_000) {
		t.Fatalf("June 1 current-year dead money: got %s, want $6.25M", current)
	}
	if next != money.FromDollars(6_250_000) {
		t.Fatalf("June 1 next-year dead money: got %s, want $6.25M", next)
	}

	// the designation changes timing, never total magnitude
	stdCurrent, stdNext := DeadMoney(c, 2027, false)
	if current+next != stdCurrent+stdNext {
		t.Fatalf("June 1 split total %s differs from standard %s", current+next, stdCurrent+stdNext)
	}
}

func TestDeadMoney_GuaranteedSalaryAccelerates(t *testing.T) {
	c := fourYearDeal()
	c.YearDetails[2].Guaranteed = true
	c.YearDetails[2].GuaranteeType = contract.GuaranteeFull

	current, next := DeadMoney(c, 2027, true)

	// guarantee lands in the current year even with the designation
	want := money.FromDollars(6_250_000) + money.FromDollars(6_250_000)
	if current != want {
		t.Fatalf("guaranteed salary must accelerate into release year: got %s, want %s", current, want)
	}
	if next != money.FromDollars(6_250_000) {
		t.Fatalf("deferred amount is bonus only: got %s", next)
	}
}

func TestDeadMoney_IgnoresVoidedAndPastYears(t *testing.T) {
	c := fourYearDeal()
	c.YearDetails[3].Voided = true

	current, _ := DeadMoney(c, 2027, false)
	if current != money.FromDollars(6_250_000) {
		t.Fatalf("voided year must not contribute: got %s", current)
	}
}

func TestDeadMoney_ConservationAgainstFullTerm(t *testing.T) {
	c := fourYearDeal()
	current, next := DeadMoney(c, 2027, false)

	var remainingProration money.Cents
	for _, d := range c.RemainingDetails(2027) {
		remainingProration += d.BonusProrationRemaining()
	}
	if current+next != remainingProration {
		t.Fatalf("release created or destroyed value: dead=%s remaining proration=%s", current+next, remainingProration)
	}
}

func TestCapSpace(t *testing.T) {
	s := capstate.TeamCapState{
		CapLimit:       money.FromDollars(255_000_000),
		Carryover:      money.FromDollars(5_000_000),
		CommittedTotal: money.FromDollars(240_000_000),
		DeadMoneyTotal: money.FromDollars(12_000_000),
	}
	if got := CapSpace(s); got != money.FromDollars(8_000_000) {
		t.Fatalf("cap space: got %s", got)
	}

	s.CommittedTotal = money.FromDollars(262_000_000)
	if got := CapSpace(s); got != money.FromDollars(-14_000_000) {
		t.Fatalf("negative cap space is a value, not an error: got %s", got)
	}
}

func TestCommittedTotal_Top51(t *testing.T) {
	var contracts []contract.Contract
	for i := 0; i < 55; i++ {
		base := money.FromDollars(int64(1_000_000 + i*10_000))
		contracts = append(contracts, contract.Contract{
			ID:     "ct",
			Active: true,
			YearDetails: []contract.YearDetail{{
				SeasonYear: 2025,
				BaseSalary: base,
			}},
		})
	}

	full := CommittedTotal(contracts, 2025, capstate.ModeRegular)
	top51 := CommittedTotal(contracts, 2025, capstate.ModeTop51)

	if top51 >= full {
		t.Fatalf("top-51 must drop the 4 smallest hits: top51=%s full=%s", top51, full)
	}
	// the four cheapest deals are excluded
	wantDiff := money.FromDollars(1_000_000 + 1_010_000 + 1_020_000 + 1_030_000)
	if full-top51 != wantDiff {
		t.Fatalf("top-51 excluded wrong hits: diff=%s want=%s", full-top51, wantDiff)
	}
}

func TestDeadMoneyTotal_SpansJune1Seasons(t *testing.T) {
	records := []deadmoney.Record{
		{Season: 2026, June1: true, CurrentYear: money.FromDollars(4_000_000), NextYear: money.FromDollars(3_000_000)},
		{Season: 2027, CurrentYear: money.FromDollars(2_000_000)},
	}

	if got := DeadMoneyTotal(records, 2027); got != money.FromDollars(5_000_000) {
		t.Fatalf("2027 carries prior June 1 deferral plus own charge: got %s", got)
	}
	if got := DeadMoneyTotal(records, 2026); got != money.FromDollars(4_000_000) {
		t.Fatalf("2026 charge: got %s", got)
	}
}

func TestSpendingFloorShortfall(t *testing.T) {
	caps := []money.Cents{
		money.FromDollars(250_000_000),
		money.FromDollars(255_000_000),
		money.FromDollars(260_000_000),
		money.FromDollars(265_000_000),
	}
	// 89% of $1.03B = $916.7M
	required := money.ApplyBasisPoints(money.Sum(caps...), DefaultSpendingFloorBps)

	cash := []money.Cents{
		money.FromDollars(220_000_000),
		money.FromDollars(225_000_000),
		money.FromDollars(230_000_000),
		money.FromDollars(235_000_000),
	}
	spent := money.Sum(cash...)

	got := SpendingFloorShortfall(cash, caps, DefaultSpendingFloorBps)
	if got != required-spent {
		t.Fatalf("shortfall: got %s, want %s", got, required-spent)
	}

	generous := []money.Cents{
		money.FromDollars(250_000_000),
		money.FromDollars(250_000_000),
		money.FromDollars(250_000_000),
		money.FromDollars(250_000_000),
	}
	if got := SpendingFloorShortfall(generous, caps, DefaultSpendingFloorBps); got != 0 {
		t.Fatalf("floor met, expected zero shortfall, got %s", got)
	}
}

func TestValidateTransaction(t *testing.T) {
	s := capstate.TeamCapState{
		CapLimit:       money.FromDollars(255_000_000),
		CommittedTotal: money.FromDollars(250_000_000),
	}

	if ok, reason := ValidateTransaction(s, money.FromDollars(5_000_000)); !ok {
		t.Fatalf("impact equal to space must pass: %s", reason)
	}
	ok, reason := ValidateTransaction(s, money.FromDollars(5_000_001))
	if ok {
		t.Fatalf("impact over space must fail")
	}
	if reason == "" {
		t.Fatalf("rejection must carry a reason")
	}
}

func TestDeriveTeamCapState(t *testing.T) {
	c := fourYearDeal()
	base := capstate.TeamCapState{
		DynastyID:  "dyn-1",
		TeamID:     "phi",
		Season:     2025,
		CapLimit:   money.FromDollars(255_000_000),
		RosterMode: capstate.ModeRegular,
		// stale cached values that must be overwritten
		CommittedTotal: money.FromDollars(999_000_000),
		DeadMoneyTotal: money.FromDollars(999_000_000),
	}

	derived := DeriveTeamCapState(base, []contract.Contract{c}, nil)
	if derived.CommittedTotal != money.FromDollars(12_500_000) {
		t.Fatalf("committed total recomputed from rows: got %s", derived.CommittedTotal)
	}
	if derived.DeadMoneyTotal != 0 {
		t.Fatalf("dead money recomputed from rows: got %s", derived.DeadMoneyTotal)
	}
}
