package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

const defaultSweepWorkers = 8

// ComplianceService answers point-in-time and deadline compliance
// questions. It never forces compliance: remediation is an explicit,
// separately-invoked action, so these checks are side-effect free on
// team rosters.
type ComplianceService struct {
	store        ledger.Store
	logger       *logging.Logger
	floorBps     int64
	june1Limit   int
	sweepWorkers int
	now          func() time.Time
}

func NewComplianceService(store ledger.Store, logger *logging.Logger) *ComplianceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ComplianceService{
		store:        store,
		logger:       logger,
		floorBps:     capmath.DefaultSpendingFloorBps,
		june1Limit:   2,
		sweepWorkers: defaultSweepWorkers,
		now:          time.Now,
	}
}

// June1Limit is the per-team, per-season designation allowance.
func (s *ComplianceService) June1Limit() int {
	return s.june1Limit
}

// Violation describes one team's failed compliance check.
type Violation struct {
	DynastyID string
	TeamID    string
	Season    int
	Kind      string
	Shortfall money.Cents
	Deadline  time.Time
	Detail    string
}

const (
	ViolationHardCap       = "HARD_CAP"
	ViolationSpendingFloor = "SPENDING_FLOOR"
)

// CheckDeadlineCompliance recomputes the team's cap position from source
// rows and reports whether it clears the hard cap at the deadline.
func (s *ComplianceService) CheckDeadlineCompliance(ctx context.Context, dynastyID, teamID string, season int, deadline time.Time) (Violation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComplianceService.CheckDeadlineCompliance")
	defer span.End()

	state, err := s.currentState(ctx, dynastyID, teamID, season)
	if err != nil {
		return Violation{}, false, err
	}

	space := capmath.CapSpace(state)
	if space >= 0 {
		return Violation{}, false, nil
	}
	return Violation{
		DynastyID: dynastyID,
		TeamID:    teamID,
		Season:    season,
		Kind:      ViolationHardCap,
		Shortfall: -space,
		Deadline:  deadline,
		Detail:    fmt.Sprintf("team is %s over the cap at the %s deadline", -space, deadline.Format("2006-01-02")),
	}, true, nil
}

// CheckSpendingFloor verifies the 89% cash-spend floor over a rolling
// window of seasons (normally four).
func (s *ComplianceService) CheckSpendingFloor(ctx context.Context, dynastyID, teamID string, window []int) (Violation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComplianceService.CheckSpendingFloor")
	defer span.End()

	if len(window) == 0 {
		return Violation{}, false, fmt.Errorf("%w: spending floor window is empty", ErrInvalidInput)
	}

	spentByYear, err := s.store.CashSpentByYear(ctx, dynastyID, teamID, window)
	if err != nil {
		return Violation{}, false, fmt.Errorf("aggregate cash spent: %w", err)
	}

	cash := make([]money.Cents, 0, len(window))
	caps := make([]money.Cents, 0, len(window))
	for _, season := range window {
		cash = append(cash, spentByYear[season])
		limit, ok, err := s.store.LeagueCapLimit(ctx, season)
		if err != nil {
			return Violation{}, false, fmt.Errorf("get league cap limit: %w", err)
		}
		if !ok {
			return Violation{}, false, fmt.Errorf("%w: no league cap limit for season %d", ErrNotFound, season)
		}
		caps = append(caps, limit)
	}

	shortfall := capmath.SpendingFloorShortfall(cash, caps, s.floorBps)
	if shortfall == 0 {
		return Violation{}, false, nil
	}
	return Violation{
		DynastyID: dynastyID,
		TeamID:    teamID,
		Season:    window[len(window)-1],
		Kind:      ViolationSpendingFloor,
		Shortfall: shortfall,
		Detail:    fmt.Sprintf("cash spending is %s below the floor over %d seasons", shortfall, len(window)),
	}, true, nil
}

// CheckLeagueWideCompliance sweeps every team in the dynasty. Each team's
// check is independent and read-only, so the sweep fans out over a worker
// pool; a failure on one team does not stop the others.
func (s *ComplianceService) CheckLeagueWideCompliance(ctx context.Context, dynastyID string, season int, deadline time.Time) ([]Violation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComplianceService.CheckLeagueWideCompliance")
	defer span.End()

	teamIDs, err := s.store.ListTeamIDs(ctx, dynastyID)
	if err != nil {
		return nil, fmt.Errorf("list team ids: %w", err)
	}
	if len(teamIDs) == 0 {
		return nil, nil
	}

	workers := s.sweepWorkers
	if workers > len(teamIDs) {
		workers = len(teamIDs)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu         sync.Mutex
		violations []Violation
		sweepErr   error
	)
	var wg sync.WaitGroup
	for _, teamID := range teamIDs {
		teamID := teamID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			v, violated, err := s.CheckDeadlineCompliance(ctx, dynastyID, teamID, season, deadline)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if sweepErr == nil {
					sweepErr = fmt.Errorf("check team %s: %w", teamID, err)
				}
				return
			}
			if violated {
				violations = append(violations, v)
			}
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit team check: %w", err)
		}
	}
	wg.Wait()

	if sweepErr != nil {
		return nil, sweepErr
	}

	sort.Slice(violations, func(i, j int) bool {
		return violations[i].TeamID < violations[j].TeamID
	})

	if len(violations) > 0 {
		s.logger.WarnContext(ctx, "league-wide compliance sweep found violations",
			"dynasty_id", dynastyID,
			"season", season,
			"violations", len(violations),
		)
	}
	return violations, nil
}

// CountJune1Designations reports how many June-1 releases the team has
// already used this season. The limit itself is enforced by the bridge
// before a designated release is dispatched.
func (s *ComplianceService) CountJune1Designations(ctx context.Context, dynastyID, teamID string, season int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComplianceService.CountJune1Designations")
	defer span.End()

	records, err := s.store.ListDeadMoney(ctx, dynastyID, teamID, season)
	if err != nil {
		return 0, fmt.Errorf("list dead money: %w", err)
	}

	count := 0
	for _, r := range records {
		if r.June1 && r.Season == season {
			count++
		}
	}
	return count, nil
}

// RollCarryover copies each team's unused cap space into the next season's
// carryover column. Each team is its own transaction, so a partial failure
// leaves completed teams committed.
func (s *ComplianceService) RollCarryover(ctx context.Context, dynastyID string, season int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ComplianceService.RollCarryover")
	defer span.End()

	teamIDs, err := s.store.ListTeamIDs(ctx, dynastyID)
	if err != nil {
		return fmt.Errorf("list team ids: %w", err)
	}

	for _, teamID := range teamIDs {
		teamID := teamID
		err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
			state, err := recomputeTeamCapState(ctx, tx, dynastyID, teamID, season)
			if err != nil {
				return err
			}
			space := capmath.CapSpace(state)
			if space <= 0 {
				return nil
			}

			next, err := recomputeTeamCapState(ctx, tx, dynastyID, teamID, season+1)
			if err != nil {
				return err
			}
			next.Carryover = space
			if err := tx.UpsertTeamCapState(ctx, next); err != nil {
				return fmt.Errorf("upsert carryover: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("roll carryover for team %s: %w", teamID, err)
		}
	}
	return nil
}

func (s *ComplianceService) currentState(ctx context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, error) {
	base, found, err := s.store.GetTeamCapState(ctx, dynastyID, teamID, season)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("get team cap state: %w", err)
	}
	if !found {
		limit, ok, err := s.store.LeagueCapLimit(ctx, season)
		if err != nil {
			return capstate.TeamCapState{}, fmt.Errorf("get league cap limit: %w", err)
		}
		if !ok {
			return capstate.TeamCapState{}, fmt.Errorf("%w: no league cap limit for season %d", ErrNotFound, season)
		}
		base = capstate.TeamCapState{
			DynastyID:  dynastyID,
			TeamID:     teamID,
			Season:     season,
			CapLimit:   limit,
			RosterMode: capstate.ModeTop51,
		}
	}

	contracts, err := s.store.ListTeamContracts(ctx, dynastyID, teamID, season, true)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("list team contracts: %w", err)
	}
	records, err := s.store.ListDeadMoney(ctx, dynastyID, teamID, season)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("list dead money: %w", err)
	}
	return capmath.DeriveTeamCapState(base, contracts, records), nil
}
