package cached

import (
	"context"
	"fmt"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/platform/cache"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// Ledger layers a read-through cache over another ledger.Store. Only the
// hot read paths are cached; every write still goes straight to the inner
// store, and a committed transaction flushes everything cached for the
// dynasties it touched. Cache keys are prefixed with the dynasty id so the
// flush cannot leak across dynasties.
type Ledger struct {
	ledger.Store

	cache *cache.Store
}

func NewLedger(inner ledger.Store, store *cache.Store) *Ledger {
	return &Ledger{
		Store: inner,
		cache: store,
	}
}

// InTx hands fn the uncached transactional store. Reads inside a
// transaction must see the transaction's own writes, which the cache
// cannot guarantee.
func (l *Ledger) InTx(ctx context.Context, fn func(ctx context.Context, s ledger.Store) error) error {
	tracker := &dynastyTracker{}
	err := l.Store.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		return fn(ctx, &trackingStore{Store: s, tracker: tracker})
	})
	if err != nil {
		return err
	}
	for _, dynastyID := range tracker.dynasties() {
		l.cache.DeletePrefix(ctx, dynastyKeyPrefix(dynastyID))
	}
	return nil
}

func (l *Ledger) GetTeamCapState(ctx context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error) {
	key := fmt.Sprintf("%scapstate|%s|%d", dynastyKeyPrefix(dynastyID), teamID, season)
	value, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		state, ok, err := l.Store.GetTeamCapState(ctx, dynastyID, teamID, season)
		if err != nil {
			return nil, err
		}
		return capStateResult{state: state, found: ok}, nil
	})
	if err != nil {
		return capstate.TeamCapState{}, false, err
	}
	result := value.(capStateResult)
	return result.state, result.found, nil
}

func (l *Ledger) ListTeamContracts(ctx context.Context, dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error) {
	key := fmt.Sprintf("%scontracts|%s|%d|%t", dynastyKeyPrefix(dynastyID), teamID, season, activeOnly)
	value, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return l.Store.ListTeamContracts(ctx, dynastyID, teamID, season, activeOnly)
	})
	if err != nil {
		return nil, err
	}
	contracts := value.([]contract.Contract)
	out := make([]contract.Contract, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (l *Ledger) LeagueCapLimit(ctx context.Context, season int) (money.Cents, bool, error) {
	key := fmt.Sprintf("league|caplimit|%d", season)
	value, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		limit, ok, err := l.Store.LeagueCapLimit(ctx, season)
		if err != nil {
			return nil, err
		}
		return capLimitResult{limit: limit, found: ok}, nil
	})
	if err != nil {
		return 0, false, err
	}
	result := value.(capLimitResult)
	return result.limit, result.found, nil
}

func (l *Ledger) TopPositionalCapHits(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return l.topPositional(ctx, "caphits", dynastyID, position, season, limit, l.Store.TopPositionalCapHits)
}

func (l *Ledger) TopPositionalSalaries(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return l.topPositional(ctx, "salaries", dynastyID, position, season, limit, l.Store.TopPositionalSalaries)
}

type positionalLoader func(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error)

func (l *Ledger) topPositional(ctx context.Context, kind, dynastyID, position string, season, limit int, load positionalLoader) ([]money.Cents, error) {
	key := fmt.Sprintf("%spositional|%s|%s|%d|%d", dynastyKeyPrefix(dynastyID), kind, position, season, limit)
	value, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx, dynastyID, position, season, limit)
	})
	if err != nil {
		return nil, err
	}
	amounts := value.([]money.Cents)
	out := make([]money.Cents, len(amounts))
	copy(out, amounts)
	return out, nil
}

type capStateResult struct {
	state capstate.TeamCapState
	found bool
}

type capLimitResult struct {
	limit money.Cents
	found bool
}

func dynastyKeyPrefix(dynastyID string) string {
	return dynastyID + "|"
}
