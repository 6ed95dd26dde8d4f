package memory

import (
	"context"
	"fmt"

	"github.com/gridironsim/capengine/internal/domain/deadmoney"
)

func (l *Ledger) InsertDeadMoneyRecord(_ context.Context, r deadmoney.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.insertDeadMoneyRecord(r)
}

func (l *Ledger) ListDeadMoney(_ context.Context, dynastyID, teamID string, season int) ([]deadmoney.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.listDeadMoney(dynastyID, teamID, season)
}

func (l *Ledger) HasReleaseRecord(_ context.Context, dynastyID, contractID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.hasReleaseRecord(dynastyID, contractID)
}

func (t *txLedger) InsertDeadMoneyRecord(_ context.Context, r deadmoney.Record) error {
	return t.state.insertDeadMoneyRecord(r)
}

func (t *txLedger) ListDeadMoney(_ context.Context, dynastyID, teamID string, season int) ([]deadmoney.Record, error) {
	return t.state.listDeadMoney(dynastyID, teamID, season)
}

func (t *txLedger) HasReleaseRecord(_ context.Context, dynastyID, contractID string) (bool, error) {
	return t.state.hasReleaseRecord(dynastyID, contractID)
}

func (s *state) insertDeadMoneyRecord(r deadmoney.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, existing := range s.deadMoney {
		if existing.DynastyID == r.DynastyID && existing.ContractID == r.ContractID {
			return fmt.Errorf("contract %s already has a dead money record", r.ContractID)
		}
	}
	s.deadMoney = append(s.deadMoney, r)
	return nil
}

// listDeadMoney returns every record that can charge against the season:
// the season's own releases plus the prior season's June 1 deferrals.
func (s *state) listDeadMoney(dynastyID, teamID string, season int) ([]deadmoney.Record, error) {
	var out []deadmoney.Record
	for _, r := range s.deadMoney {
		if r.DynastyID != dynastyID || r.TeamID != teamID {
			continue
		}
		if r.Season == season || (r.June1 && r.Season+1 == season) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *state) hasReleaseRecord(dynastyID, contractID string) (bool, error) {
	for _, r := range s.deadMoney {
		if r.DynastyID == dynastyID && r.ContractID == contractID {
			return true, nil
		}
	}
	return false, nil
}
