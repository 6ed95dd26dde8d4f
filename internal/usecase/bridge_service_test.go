package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/leaguedata"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/memory"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

type recordingFeed struct {
	entries []txlog.Entry
}

func (f *recordingFeed) PublishEntry(_ context.Context, entry txlog.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newTestBridge(store *memory.Ledger) (*BridgeService, *recordingFeed) {
	feed := &recordingFeed{}
	// distinct id prefixes so ids never collide with contracts the tests
	// book directly through their own service instances
	contracts := NewContractService(store, &seqIDGenerator{prefix: "bridge-ct"}, logging.NewNop())
	tags := NewTagService(store, &seqIDGenerator{prefix: "bridge-tg"}, DefaultTagConfig(), logging.NewNop())
	bridge := NewBridgeService(contracts, tags, newTestComplianceService(store), feed, logging.NewNop())
	return bridge, feed
}

func TestBridgeService_Execute_SignPersistsAndPublishes(t *testing.T) {
	store := newTestLedger()
	bridge, feed := newTestBridge(store)

	result, err := bridge.Execute(context.Background(), SignContractRequest{
		DynastyID:    testDynasty,
		PlayerID:     "qb-star",
		TeamID:       testTeam,
		Kind:         contract.KindVeteran,
		StartYear:    2025,
		Years:        4,
		SigningBonus: money.FromDollars(25_000_000),
		YearTerms: []YearTerms{
			{BaseSalary: money.FromDollars(6_250_000)},
			{BaseSalary: money.FromDollars(6_250_000)},
			{BaseSalary: money.FromDollars(6_250_000)},
			{BaseSalary: money.FromDollars(6_250_000)},
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.Status != StatusPersisted {
		t.Fatalf("status = %s, want PERSISTED", result.Status)
	}
	if result.ContractID == "" {
		t.Fatal("result has no contract id")
	}
	if result.CapSpaceAfter != money.FromDollars(287_500_000) {
		t.Fatalf("cap space after = %s, want $287.5M", result.CapSpaceAfter)
	}
	if result.LogEntry == nil || result.LogEntry.Type != txlog.TypeSign {
		t.Fatalf("result log entry = %+v, want a SIGN entry", result.LogEntry)
	}
	if len(feed.entries) != 1 || feed.entries[0].ID != result.LogEntry.ID {
		t.Fatalf("feed got %d entries, want the committed log entry", len(feed.entries))
	}
}

func TestBridgeService_Execute_RejectsWithoutMutating(t *testing.T) {
	store := memory.NewLedger(memory.Seed{
		Teams: map[string][]string{testDynasty: {testTeam}},
		CapLimits: []leaguedata.SalaryCap{
			{Season: 2025, Limit: money.FromDollars(10_000_000)},
		},
	})
	bridge, feed := newTestBridge(store)

	result, err := bridge.Execute(context.Background(), SignContractRequest{
		DynastyID: testDynasty,
		PlayerID:  "qb-star",
		TeamID:    testTeam,
		Kind:      contract.KindVeteran,
		StartYear: 2025,
		Years:     1,
		YearTerms: []YearTerms{{BaseSalary: money.FromDollars(12_000_000)}},
	})
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if result.Status != StatusRejected {
		t.Fatalf("status = %s, want REJECTED", result.Status)
	}
	if result.Reason == "" {
		t.Fatal("rejected result carries no reason")
	}

	contracts, err := store.ListTeamContracts(context.Background(), testDynasty, testTeam, 2025, false)
	if err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	if len(contracts) != 0 {
		t.Fatalf("rejected request persisted %d contracts", len(contracts))
	}
	entries, err := store.ListTransactionLog(context.Background(), testDynasty, testTeam, 2025)
	if err != nil {
		t.Fatalf("list transaction log: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected request wrote %d log entries", len(entries))
	}
	if len(feed.entries) != 0 {
		t.Fatal("rejected request reached the feed")
	}
}

func TestBridgeService_Execute_ReleaseEnforcesJune1Limit(t *testing.T) {
	store := newTestLedger()
	bridge, _ := newTestBridge(store)
	contracts := newTestContractService(store)
	ctx := context.Background()

	terms := []YearTerms{
		{BaseSalary: money.FromDollars(2_000_000)},
		{BaseSalary: money.FromDollars(2_000_000)},
	}
	var ids []string
	for i := 0; i < 3; i++ {
		c, err := contracts.CreateContract(ctx, CreateContractInput{
			DynastyID:    testDynasty,
			PlayerID:     string(rune('a'+i)) + "-player",
			TeamID:       testTeam,
			Kind:         contract.KindVeteran,
			StartYear:    2025,
			Years:        2,
			SigningBonus: money.FromDollars(10_000_000),
			YearTerms:    terms,
		})
		if err != nil {
			t.Fatalf("sign contract %d: %v", i, err)
		}
		ids = append(ids, c.ID)
	}

	for i := 0; i < 2; i++ {
		result, err := bridge.Execute(ctx, ReleaseRequest{
			DynastyID: testDynasty, TeamID: testTeam,
			ContractID: ids[i], Season: 2025, June1: true,
		})
		if err != nil {
			t.Fatalf("June 1 release %d: %v", i+1, err)
		}
		if result.Status != StatusPersisted {
			t.Fatalf("release %d status = %s", i+1, result.Status)
		}
	}

	// two designations per team per season is the ceiling
	result, err := bridge.Execute(ctx, ReleaseRequest{
		DynastyID: testDynasty, TeamID: testTeam,
		ContractID: ids[2], Season: 2025, June1: true,
	})
	if !IsValidationError(err) {
		t.Fatalf("expected validation error on third designation, got %v", err)
	}
	if result.Status != StatusRejected {
		t.Fatalf("status = %s, want REJECTED", result.Status)
	}

	// a plain release of the same contract still goes through
	plain, err := bridge.Execute(ctx, ReleaseRequest{
		DynastyID: testDynasty, TeamID: testTeam,
		ContractID: ids[2], Season: 2025,
	})
	if err != nil {
		t.Fatalf("standard release: %v", err)
	}
	if plain.DeadMoneyCreated != money.FromDollars(10_000_000) {
		t.Fatalf("dead money = %s, want the full $10M bonus", plain.DeadMoneyCreated)
	}
}

func TestBridgeService_Execute_TagAndTender(t *testing.T) {
	store := newTestLedger()
	bridge, _ := newTestBridge(store)
	ctx := context.Background()

	tagResult, err := bridge.Execute(ctx, ApplyTagRequest{
		DynastyID: testDynasty, PlayerID: "qb-star", TeamID: testTeam,
		Position: "QB", Season: 2026, Type: tag.TypeFranchise,
	})
	if err != nil {
		t.Fatalf("tag request: %v", err)
	}
	if tagResult.Status != StatusPersisted || tagResult.TagSalary != money.FromDollars(46_000_000) {
		t.Fatalf("tag result: status=%s salary=%s", tagResult.Status, tagResult.TagSalary)
	}

	tenderResult, err := bridge.Execute(ctx, RFATenderRequest{
		DynastyID: testDynasty, PlayerID: "wr-young", TeamID: testTeam,
		Season: 2026, Level: tag.TenderSecondRound,
		PreviousSalary: money.FromDollars(6_000_000),
	})
	if err != nil {
		t.Fatalf("tender request: %v", err)
	}
	if tenderResult.Status != StatusPersisted || tenderResult.TenderAmount != money.FromDollars(6_600_000) {
		t.Fatalf("tender result: status=%s amount=%s", tenderResult.Status, tenderResult.TenderAmount)
	}
}

func TestBridgeService_Execute_FailureAfterValidationRollsBack(t *testing.T) {
	store := newTestLedger()
	feed := &recordingFeed{}

	// a colliding id generator makes the second insert fail inside the
	// transaction, after validation has already passed
	contracts := NewContractService(store, &seqIDGenerator{prefix: "dup"}, logging.NewNop())
	bridge := NewBridgeService(contracts, newTestTagService(store), newTestComplianceService(store), feed, logging.NewNop())

	req := SignContractRequest{
		DynastyID: testDynasty,
		PlayerID:  "qb-star",
		TeamID:    testTeam,
		Kind:      contract.KindVeteran,
		StartYear: 2025,
		Years:     1,
		YearTerms: []YearTerms{{BaseSalary: money.FromDollars(5_000_000)}},
	}
	if _, err := bridge.Execute(context.Background(), req); err != nil {
		t.Fatalf("first sign: %v", err)
	}

	gen := contracts.ids.(*seqIDGenerator)
	gen.n = 0 // replay the same ids

	result, err := bridge.Execute(context.Background(), req)
	if err == nil {
		t.Fatal("expected the duplicate insert to fail")
	}
	if IsValidationError(err) {
		t.Fatalf("duplicate insert surfaced as a validation error: %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %s, want FAILED", result.Status)
	}

	// the failed transaction left exactly the first contract behind
	all, listErr := store.ListTeamContracts(context.Background(), testDynasty, testTeam, 2025, false)
	if listErr != nil {
		t.Fatalf("list contracts: %v", listErr)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 contract after rollback, got %d", len(all))
	}
}

func TestBridgeService_Execute_RestructureRequest(t *testing.T) {
	store := newTestLedger()
	bridge, _ := newTestBridge(store)
	contracts := newTestContractService(store)
	ctx := context.Background()

	c := signFourYearDeal(t, contracts)

	result, err := bridge.Execute(ctx, RestructureRequest{
		DynastyID: testDynasty, TeamID: testTeam,
		ContractID: c.ID, Season: 2025,
		Amount: money.FromDollars(6_000_000),
	})
	if err != nil {
		t.Fatalf("restructure request: %v", err)
	}
	if result.Status != StatusPersisted {
		t.Fatalf("status = %s, want PERSISTED", result.Status)
	}
	// $6M freed this year: committed drops from $12.5M to $6.5M
	if result.CapSpaceAfter != money.FromDollars(293_500_000) {
		t.Fatalf("cap space after = %s, want $293.5M", result.CapSpaceAfter)
	}

	_, err = bridge.Execute(ctx, RestructureRequest{
		DynastyID: testDynasty, TeamID: testTeam,
		ContractID: c.ID, Season: 2028,
		Amount: money.FromDollars(1_000_000),
	})
	if !IsValidationError(err) {
		t.Fatalf("expected validation error for final-year restructure, got %v", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("validation error does not unwrap to ErrValidation: %v", err)
	}
}
