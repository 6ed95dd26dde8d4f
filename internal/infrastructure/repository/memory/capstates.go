package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/platform/money"
)

func capStateKey(dynastyID, teamID string, season int) string {
	return fmt.Sprintf("%s|%s|%d", dynastyID, teamID, season)
}

func (l *Ledger) UpsertTeamCapState(_ context.Context, s capstate.TeamCapState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.upsertTeamCapState(s)
}

func (l *Ledger) GetTeamCapState(_ context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.getTeamCapState(dynastyID, teamID, season)
}

func (l *Ledger) ListTeamIDs(_ context.Context, dynastyID string) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.listTeamIDs(dynastyID)
}

func (l *Ledger) CashSpentByYear(_ context.Context, dynastyID, teamID string, seasons []int) (map[int]money.Cents, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.cashSpentByYear(dynastyID, teamID, seasons)
}

func (t *txLedger) UpsertTeamCapState(_ context.Context, s capstate.TeamCapState) error {
	return t.state.upsertTeamCapState(s)
}

func (t *txLedger) GetTeamCapState(_ context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error) {
	return t.state.getTeamCapState(dynastyID, teamID, season)
}

func (t *txLedger) ListTeamIDs(_ context.Context, dynastyID string) ([]string, error) {
	return t.state.listTeamIDs(dynastyID)
}

func (t *txLedger) CashSpentByYear(_ context.Context, dynastyID, teamID string, seasons []int) (map[int]money.Cents, error) {
	return t.state.cashSpentByYear(dynastyID, teamID, seasons)
}

func (s *state) upsertTeamCapState(cs capstate.TeamCapState) error {
	if err := cs.Validate(); err != nil {
		return err
	}
	s.capStates[capStateKey(cs.DynastyID, cs.TeamID, cs.Season)] = cs
	return nil
}

func (s *state) getTeamCapState(dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error) {
	cs, ok := s.capStates[capStateKey(dynastyID, teamID, season)]
	return cs, ok, nil
}

func (s *state) listTeamIDs(dynastyID string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, teamID := range s.teams[dynastyID] {
		seen[teamID] = struct{}{}
	}
	for _, c := range s.contracts[dynastyID] {
		seen[c.TeamID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for teamID := range seen {
		out = append(out, teamID)
	}
	sort.Strings(out)
	return out, nil
}

func (s *state) cashSpentByYear(dynastyID, teamID string, seasons []int) (map[int]money.Cents, error) {
	wanted := make(map[int]struct{}, len(seasons))
	out := make(map[int]money.Cents, len(seasons))
	for _, season := range seasons {
		wanted[season] = struct{}{}
		out[season] = 0
	}
	for _, c := range s.contracts[dynastyID] {
		if c.TeamID != teamID {
			continue
		}
		for _, d := range c.YearDetails {
			if _, ok := wanted[d.SeasonYear]; ok {
				out[d.SeasonYear] += d.CashPaid
			}
		}
	}
	return out, nil
}
