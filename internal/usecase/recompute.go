package usecase

import (
	"context"
	"fmt"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/ledger"
)

// recomputeTeamCapState rebuilds a team's derived cap totals from the
// contract and dead-money rows and persists the result. It is called inside
// every mutating transaction so the cached state can never drift from the
// rows it summarizes.
func recomputeTeamCapState(ctx context.Context, s ledger.Store, dynastyID, teamID string, season int) (capstate.TeamCapState, error) {
	base, found, err := s.GetTeamCapState(ctx, dynastyID, teamID, season)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("get team cap state: %w", err)
	}
	if !found {
		limit, ok, err := s.LeagueCapLimit(ctx, season)
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

	contracts, err := s.ListTeamContracts(ctx, dynastyID, teamID, season, true)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("list team contracts: %w", err)
	}
	records, err := s.ListDeadMoney(ctx, dynastyID, teamID, season)
	if err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("list dead money: %w", err)
	}

	derived := capmath.DeriveTeamCapState(base, contracts, records)
	if err := s.UpsertTeamCapState(ctx, derived); err != nil {
		return capstate.TeamCapState{}, fmt.Errorf("upsert team cap state: %w", err)
	}
	return derived, nil
}
