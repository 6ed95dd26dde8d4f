package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/memory"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

func newTestComplianceService(store *memory.Ledger) *ComplianceService {
	svc := NewComplianceService(store, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

// signOneYearDeal books a single-year contract with the given base salary
// for any team in the test dynasty.
func signOneYearDeal(t *testing.T, svc *ContractService, teamID string, season int, base money.Cents) contract.Contract {
	t.Helper()
	c, err := svc.CreateContract(context.Background(), CreateContractInput{
		DynastyID: testDynasty,
		PlayerID:  "p-" + teamID,
		TeamID:    teamID,
		Kind:      contract.KindVeteran,
		StartYear: season,
		Years:     1,
		YearTerms: []YearTerms{{BaseSalary: base}},
	})
	if err != nil {
		t.Fatalf("sign one-year deal: %v", err)
	}
	return c
}

func TestComplianceService_CheckDeadlineCompliance(t *testing.T) {
	store := newTestLedger()
	contracts := newTestContractService(store)
	svc := newTestComplianceService(store)

	deadline := time.Date(2025, time.March, 12, 16, 0, 0, 0, time.UTC)

	// under the cap: no violation
	signOneYearDeal(t, contracts, testTeam, 2025, money.FromDollars(20_000_000))
	_, violated, err := svc.CheckDeadlineCompliance(context.Background(), testDynasty, testTeam, 2025, deadline)
	if err != nil {
		t.Fatalf("check compliance: %v", err)
	}
	if violated {
		t.Fatal("team under the cap flagged as violating")
	}

	// a second deal pushes the team $10M over the $300M cap
	signOneYearDeal(t, contracts, "nyg", 2025, money.FromDollars(310_000_000))
	v, violated, err := svc.CheckDeadlineCompliance(context.Background(), testDynasty, "nyg", 2025, deadline)
	if err != nil {
		t.Fatalf("check compliance: %v", err)
	}
	if !violated {
		t.Fatal("team over the cap not flagged")
	}
	if v.Kind != ViolationHardCap {
		t.Fatalf("violation kind = %s, want HARD_CAP", v.Kind)
	}
	if v.Shortfall != money.FromDollars(10_000_000) {
		t.Fatalf("shortfall = %s, want $10M", v.Shortfall)
	}
}

func TestComplianceService_CheckSpendingFloor(t *testing.T) {
	store := newTestLedger()
	contracts := newTestContractService(store)
	svc := newTestComplianceService(store)

	window := []int{2025, 2026, 2027, 2028}

	// $280M/yr in cash clears 89% of the $1.2B four-year cap sum
	for _, season := range window {
		signOneYearDeal(t, contracts, testTeam, season, money.FromDollars(280_000_000))
	}
	_, violated, err := svc.CheckSpendingFloor(context.Background(), testDynasty, testTeam, window)
	if err != nil {
		t.Fatalf("check spending floor: %v", err)
	}
	if violated {
		t.Fatal("team above the floor flagged as violating")
	}

	// a team that spent $100M once over four years is far short:
	// floor = 89% * $1.2B = $1.068B
	signOneYearDeal(t, contracts, "nyg", 2025, money.FromDollars(100_000_000))
	v, violated, err := svc.CheckSpendingFloor(context.Background(), testDynasty, "nyg", window)
	if err != nil {
		t.Fatalf("check spending floor: %v", err)
	}
	if !violated {
		t.Fatal("team below the floor not flagged")
	}
	if v.Kind != ViolationSpendingFloor {
		t.Fatalf("violation kind = %s, want SPENDING_FLOOR", v.Kind)
	}
	if v.Shortfall != money.FromDollars(968_000_000) {
		t.Fatalf("shortfall = %s, want $968M", v.Shortfall)
	}
}

func TestComplianceService_CheckLeagueWideCompliance_SweepsEveryTeam(t *testing.T) {
	store := newTestLedger()
	contracts := newTestContractService(store)
	svc := newTestComplianceService(store)

	deadline := time.Date(2025, time.March, 12, 16, 0, 0, 0, time.UTC)

	signOneYearDeal(t, contracts, "was", 2025, money.FromDollars(320_000_000))
	signOneYearDeal(t, contracts, "phi", 2025, money.FromDollars(305_000_000))
	signOneYearDeal(t, contracts, testTeam, 2025, money.FromDollars(50_000_000))

	violations, err := svc.CheckLeagueWideCompliance(context.Background(), testDynasty, 2025, deadline)
	if err != nil {
		t.Fatalf("league-wide sweep: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	// sorted by team id for a stable report
	if violations[0].TeamID != "phi" || violations[1].TeamID != "was" {
		t.Fatalf("violations out of order: %s, %s", violations[0].TeamID, violations[1].TeamID)
	}
}

func TestComplianceService_CountJune1Designations(t *testing.T) {
	store := newTestLedger()
	contracts := newTestContractService(store)
	svc := newTestComplianceService(store)
	ctx := context.Background()

	c := signFourYearDeal(t, contracts)
	if _, err := contracts.Release(ctx, ReleaseInput{
		DynastyID: testDynasty, ContractID: c.ID, Season: 2026, June1: true,
	}); err != nil {
		t.Fatalf("release: %v", err)
	}

	count, err := svc.CountJune1Designations(ctx, testDynasty, testTeam, 2026)
	if err != nil {
		t.Fatalf("count designations: %v", err)
	}
	if count != 1 {
		t.Fatalf("designation count = %d, want 1", count)
	}

	// the deferred charge next season is not a new designation
	count, err = svc.CountJune1Designations(ctx, testDynasty, testTeam, 2027)
	if err != nil {
		t.Fatalf("count designations: %v", err)
	}
	if count != 0 {
		t.Fatalf("2027 designation count = %d, want 0", count)
	}
}

func TestComplianceService_RollCarryover(t *testing.T) {
	store := newTestLedger()
	contracts := newTestContractService(store)
	svc := newTestComplianceService(store)
	ctx := context.Background()

	signOneYearDeal(t, contracts, testTeam, 2025, money.FromDollars(290_000_000))

	if err := svc.RollCarryover(ctx, testDynasty, 2025); err != nil {
		t.Fatalf("roll carryover: %v", err)
	}

	next, found, err := store.GetTeamCapState(ctx, testDynasty, testTeam, 2026)
	if err != nil || !found {
		t.Fatalf("get 2026 cap state: found=%v err=%v", found, err)
	}
	if next.Carryover != money.FromDollars(10_000_000) {
		t.Fatalf("2026 carryover = %s, want $10M", next.Carryover)
	}
}
