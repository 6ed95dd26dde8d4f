package cached

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
)

// dynastyTracker collects the dynasty ids written inside one transaction so
// the commit can flush exactly the cache entries that may now be stale.
type dynastyTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (t *dynastyTracker) mark(dynastyID string) {
	if dynastyID == "" {
		return
	}
	t.mu.Lock()
	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}
	t.seen[dynastyID] = struct{}{}
	t.mu.Unlock()
}

func (t *dynastyTracker) dynasties() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.seen))
	for dynastyID := range t.seen {
		out = append(out, dynastyID)
	}
	sort.Strings(out)
	return out
}

// trackingStore wraps the transactional store and records the dynasty id of
// every write. Reads pass through untouched.
type trackingStore struct {
	ledger.Store

	tracker *dynastyTracker
}

func (s *trackingStore) InTx(ctx context.Context, fn func(ctx context.Context, inner ledger.Store) error) error {
	return s.Store.InTx(ctx, func(ctx context.Context, inner ledger.Store) error {
		return fn(ctx, &trackingStore{Store: inner, tracker: s.tracker})
	})
}

func (s *trackingStore) InsertContract(ctx context.Context, c contract.Contract) error {
	s.tracker.mark(c.DynastyID)
	return s.Store.InsertContract(ctx, c)
}

func (s *trackingStore) UpdateContract(ctx context.Context, c contract.Contract) error {
	s.tracker.mark(c.DynastyID)
	return s.Store.UpdateContract(ctx, c)
}

func (s *trackingStore) UpsertTeamCapState(ctx context.Context, state capstate.TeamCapState) error {
	s.tracker.mark(state.DynastyID)
	return s.Store.UpsertTeamCapState(ctx, state)
}

func (s *trackingStore) InsertTag(ctx context.Context, t tag.Tag) error {
	s.tracker.mark(t.DynastyID)
	return s.Store.InsertTag(ctx, t)
}

func (s *trackingStore) InsertTender(ctx context.Context, t tag.Tender) error {
	s.tracker.mark(t.DynastyID)
	return s.Store.InsertTender(ctx, t)
}

func (s *trackingStore) UpdateTender(ctx context.Context, t tag.Tender) error {
	s.tracker.mark(t.DynastyID)
	return s.Store.UpdateTender(ctx, t)
}

func (s *trackingStore) InsertDeadMoneyRecord(ctx context.Context, r deadmoney.Record) error {
	s.tracker.mark(r.DynastyID)
	return s.Store.InsertDeadMoneyRecord(ctx, r)
}

func (s *trackingStore) AppendTransactionLog(ctx context.Context, e txlog.Entry) error {
	s.tracker.mark(e.DynastyID)
	return s.Store.AppendTransactionLog(ctx, e)
}
