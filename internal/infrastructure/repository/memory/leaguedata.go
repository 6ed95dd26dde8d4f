package memory

import (
	"context"
	"sort"

	"github.com/gridironsim/capengine/internal/platform/money"
)

func (l *Ledger) LeagueCapLimit(_ context.Context, season int) (money.Cents, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.leagueCapLimit(season)
}

func (l *Ledger) TopPositionalCapHits(_ context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.topPositional(dynastyID, position, season, limit, false)
}

func (l *Ledger) TopPositionalSalaries(_ context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.topPositional(dynastyID, position, season, limit, true)
}

func (t *txLedger) LeagueCapLimit(_ context.Context, season int) (money.Cents, bool, error) {
	return t.state.leagueCapLimit(season)
}

func (t *txLedger) TopPositionalCapHits(_ context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return t.state.topPositional(dynastyID, position, season, limit, false)
}

func (t *txLedger) TopPositionalSalaries(_ context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return t.state.topPositional(dynastyID, position, season, limit, true)
}

func (s *state) leagueCapLimit(season int) (money.Cents, bool, error) {
	limit, ok := s.capLimits[season]
	return limit, ok, nil
}

func (s *state) topPositional(dynastyID, position string, season, limit int, salaries bool) ([]money.Cents, error) {
	var out []money.Cents
	for _, row := range s.positional {
		if row.DynastyID != dynastyID || row.Position != position || row.Season != season {
			continue
		}
		if salaries {
			out = append(out, row.Salary)
		} else {
			out = append(out, row.CapHit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
