package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// TeamCapSummary is the read-model a UI or orchestrator consumes. All
// derived amounts come from recomputing the contract rows, never from
// trusting the cached cap-state columns.
type TeamCapSummary struct {
	DynastyID       string
	TeamID          string
	Season          int
	CapLimit        money.Cents
	Carryover       money.Cents
	CommittedTotal  money.Cents
	DeadMoneyTotal  money.Cents
	IncentivesTotal money.Cents
	PracticeSquad   money.Cents
	CapSpace        money.Cents
	RosterMode      capstate.RosterMode
	ActiveContracts int
	TopCapHits      []ContractCapHit
}

type ContractCapHit struct {
	ContractID string
	PlayerID   string
	CapHit     money.Cents
}

type ComplianceReport struct {
	Season     int
	Teams      []TeamCapSummary
	Violations []Violation
}

// ReportingService is the read-only query surface. Safe to call at any
// time; it never writes.
type ReportingService struct {
	store      ledger.Store
	compliance *ComplianceService
	logger     *logging.Logger
}

func NewReportingService(store ledger.Store, compliance *ComplianceService, logger *logging.Logger) *ReportingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportingService{
		store:      store,
		compliance: compliance,
		logger:     logger,
	}
}

func (s *ReportingService) TeamCapSummary(ctx context.Context, dynastyID, teamID string, season int) (TeamCapSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportingService.TeamCapSummary")
	defer span.End()

	state, err := s.compliance.currentState(ctx, dynastyID, teamID, season)
	if err != nil {
		return TeamCapSummary{}, err
	}

	contracts, err := s.store.ListTeamContracts(ctx, dynastyID, teamID, season, true)
	if err != nil {
		return TeamCapSummary{}, fmt.Errorf("list team contracts: %w", err)
	}

	summary := TeamCapSummary{
		DynastyID:       dynastyID,
		TeamID:          teamID,
		Season:          season,
		CapLimit:        state.CapLimit,
		Carryover:       state.Carryover,
		CommittedTotal:  state.CommittedTotal,
		DeadMoneyTotal:  state.DeadMoneyTotal,
		IncentivesTotal: state.IncentivesTotal,
		PracticeSquad:   state.PracticeSquadTotal,
		CapSpace:        capmath.CapSpace(state),
		RosterMode:      state.RosterMode,
	}

	for _, c := range contracts {
		if !c.Active {
			continue
		}
		d, ok := c.YearDetailFor(season)
		if !ok || d.Voided {
			continue
		}
		summary.ActiveContracts++
		summary.TopCapHits = append(summary.TopCapHits, ContractCapHit{
			ContractID: c.ID,
			PlayerID:   c.PlayerID,
			CapHit:     d.CapHit(),
		})
	}
	sort.Slice(summary.TopCapHits, func(i, j int) bool {
		return summary.TopCapHits[i].CapHit > summary.TopCapHits[j].CapHit
	})
	if len(summary.TopCapHits) > 10 {
		summary.TopCapHits = summary.TopCapHits[:10]
	}

	return summary, nil
}

func (s *ReportingService) ContractBreakdown(ctx context.Context, dynastyID, contractID string) (ContractBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportingService.ContractBreakdown")
	defer span.End()

	c, found, err := s.store.GetContract(ctx, dynastyID, contractID)
	if err != nil {
		return ContractBreakdown{}, fmt.Errorf("get contract: %w", err)
	}
	if !found {
		return ContractBreakdown{}, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}

	return buildContractBreakdown(c), nil
}

func (s *ReportingService) ComplianceReport(ctx context.Context, dynastyID string, season int) (ComplianceReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportingService.ComplianceReport")
	defer span.End()

	teamIDs, err := s.store.ListTeamIDs(ctx, dynastyID)
	if err != nil {
		return ComplianceReport{}, fmt.Errorf("list team ids: %w", err)
	}

	report := ComplianceReport{Season: season}
	for _, teamID := range teamIDs {
		summary, err := s.TeamCapSummary(ctx, dynastyID, teamID, season)
		if err != nil {
			return ComplianceReport{}, fmt.Errorf("summarize team %s: %w", teamID, err)
		}
		report.Teams = append(report.Teams, summary)
		if summary.CapSpace < 0 {
			report.Violations = append(report.Violations, Violation{
				DynastyID: dynastyID,
				TeamID:    teamID,
				Season:    season,
				Kind:      ViolationHardCap,
				Shortfall: -summary.CapSpace,
				Detail:    fmt.Sprintf("team is %s over the cap", -summary.CapSpace),
			})
		}
	}

	sort.Slice(report.Teams, func(i, j int) bool {
		return report.Teams[i].TeamID < report.Teams[j].TeamID
	})
	return report, nil
}

// TransactionHistory returns the season's audit trail for one team, oldest
// first. The log is the sole explanation for how a cap number came to be.
func (s *ReportingService) TransactionHistory(ctx context.Context, dynastyID, teamID string, season int) ([]txlog.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportingService.TransactionHistory")
	defer span.End()

	entries, err := s.store.ListTransactionLog(ctx, dynastyID, teamID, season)
	if err != nil {
		return nil, fmt.Errorf("list transaction log: %w", err)
	}
	return entries, nil
}
