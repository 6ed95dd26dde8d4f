package memory

import (
	"context"
	"sync"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/domain/leaguedata"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// Ledger is the in-memory ledger.Store used in dev mode and in tests.
// InTx clones the whole state, runs the function against the clone, and
// swaps the clone in only on success, so a failed transaction leaves no
// trace.
type Ledger struct {
	mu    sync.RWMutex
	state *state
}

// state is everything the ledger knows. It is only ever mutated through a
// transactional clone.
type state struct {
	contracts  map[string]map[string]contract.Contract // dynasty id -> contract id
	capStates  map[string]capstate.TeamCapState        // capStateKey
	teams      map[string][]string                     // dynasty id -> team ids
	tags       []tag.Tag
	tenders    map[string]map[string]tag.Tender // dynasty id -> tender id
	deadMoney  []deadmoney.Record
	txLog      []txlog.Entry
	capLimits  map[int]money.Cents
	positional []leaguedata.PositionalCapHit
}

func newState() *state {
	return &state{
		contracts: make(map[string]map[string]contract.Contract),
		capStates: make(map[string]capstate.TeamCapState),
		teams:     make(map[string][]string),
		tenders:   make(map[string]map[string]tag.Tender),
		capLimits: make(map[int]money.Cents),
	}
}

func NewLedger(seed Seed) *Ledger {
	s := newState()
	for dynastyID, teamIDs := range seed.Teams {
		s.teams[dynastyID] = append([]string(nil), teamIDs...)
	}
	for _, cap := range seed.CapLimits {
		s.capLimits[cap.Season] = cap.Limit
	}
	s.positional = append(s.positional, seed.Positional...)
	for _, c := range seed.Contracts {
		if _, ok := s.contracts[c.DynastyID]; !ok {
			s.contracts[c.DynastyID] = make(map[string]contract.Contract)
		}
		s.contracts[c.DynastyID][c.ID] = c.Clone()
	}
	return &Ledger{state: s}
}

var _ ledger.Store = (*Ledger)(nil)

// InTx serializes writers. The function sees a private clone; other readers
// keep seeing the committed state until fn returns nil.
func (l *Ledger) InTx(ctx context.Context, fn func(ctx context.Context, s ledger.Store) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &txLedger{state: l.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	l.state = tx.state
	return nil
}

// txLedger is the Store handed to an InTx function. It needs no locking:
// the parent ledger holds its write lock for the transaction's duration.
type txLedger struct {
	state *state
}

var _ ledger.Store = (*txLedger)(nil)

func (t *txLedger) InTx(ctx context.Context, fn func(ctx context.Context, s ledger.Store) error) error {
	return fn(ctx, t)
}

func (s *state) clone() *state {
	out := newState()
	for dynastyID, byID := range s.contracts {
		m := make(map[string]contract.Contract, len(byID))
		for id, c := range byID {
			m[id] = c.Clone()
		}
		out.contracts[dynastyID] = m
	}
	for k, v := range s.capStates {
		out.capStates[k] = v
	}
	for dynastyID, teamIDs := range s.teams {
		out.teams[dynastyID] = append([]string(nil), teamIDs...)
	}
	out.tags = append([]tag.Tag(nil), s.tags...)
	for dynastyID, byID := range s.tenders {
		m := make(map[string]tag.Tender, len(byID))
		for id, tn := range byID {
			m[id] = tn
		}
		out.tenders[dynastyID] = m
	}
	out.deadMoney = append([]deadmoney.Record(nil), s.deadMoney...)
	out.txLog = make([]txlog.Entry, 0, len(s.txLog))
	for _, e := range s.txLog {
		out.txLog = append(out.txLog, cloneEntry(e))
	}
	for season, limit := range s.capLimits {
		out.capLimits[season] = limit
	}
	out.positional = append([]leaguedata.PositionalCapHit(nil), s.positional...)
	return out
}

func cloneEntry(e txlog.Entry) txlog.Entry {
	if e.FutureImpacts != nil {
		m := make(map[int]money.Cents, len(e.FutureImpacts))
		for year, amount := range e.FutureImpacts {
			m[year] = amount
		}
		e.FutureImpacts = m
	}
	return e
}
