package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/txlog"
)

func (l *Ledger) AppendTransactionLog(_ context.Context, e txlog.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.appendTransactionLog(e)
}

func (l *Ledger) ListTransactionLog(_ context.Context, dynastyID, teamID string, season int) ([]txlog.Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.listTransactionLog(dynastyID, teamID, season)
}

func (t *txLedger) AppendTransactionLog(_ context.Context, e txlog.Entry) error {
	return t.state.appendTransactionLog(e)
}

func (t *txLedger) ListTransactionLog(_ context.Context, dynastyID, teamID string, season int) ([]txlog.Entry, error) {
	return t.state.listTransactionLog(dynastyID, teamID, season)
}

// The log is append-only. There is deliberately no update or delete path.
func (s *state) appendTransactionLog(e txlog.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	for _, existing := range s.txLog {
		if existing.ID == e.ID {
			return fmt.Errorf("transaction log entry %s already exists", e.ID)
		}
	}
	s.txLog = append(s.txLog, cloneEntry(e))
	return nil
}

func (s *state) listTransactionLog(dynastyID, teamID string, season int) ([]txlog.Entry, error) {
	var out []txlog.Entry
	for _, e := range s.txLog {
		if e.DynastyID == dynastyID && e.TeamID == teamID && e.Season == season {
			out = append(out, cloneEntry(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
