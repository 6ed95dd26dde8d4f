package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/contract"
)

func (l *Ledger) InsertContract(_ context.Context, c contract.Contract) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.insertContract(c)
}

func (l *Ledger) UpdateContract(_ context.Context, c contract.Contract) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.updateContract(c)
}

func (l *Ledger) GetContract(_ context.Context, dynastyID, contractID string) (contract.Contract, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.getContract(dynastyID, contractID)
}

func (l *Ledger) ListTeamContracts(_ context.Context, dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.listTeamContracts(dynastyID, teamID, season, activeOnly)
}

func (t *txLedger) InsertContract(_ context.Context, c contract.Contract) error {
	return t.state.insertContract(c)
}

func (t *txLedger) UpdateContract(_ context.Context, c contract.Contract) error {
	return t.state.updateContract(c)
}

func (t *txLedger) GetContract(_ context.Context, dynastyID, contractID string) (contract.Contract, bool, error) {
	return t.state.getContract(dynastyID, contractID)
}

func (t *txLedger) ListTeamContracts(_ context.Context, dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error) {
	return t.state.listTeamContracts(dynastyID, teamID, season, activeOnly)
}

func (s *state) insertContract(c contract.Contract) error {
	if err := c.Validate(); err != nil {
		return err
	}
	byID, ok := s.contracts[c.DynastyID]
	if !ok {
		byID = make(map[string]contract.Contract)
		s.contracts[c.DynastyID] = byID
	}
	if _, exists := byID[c.ID]; exists {
		return fmt.Errorf("contract %s already exists", c.ID)
	}
	byID[c.ID] = c.Clone()
	return nil
}

func (s *state) updateContract(c contract.Contract) error {
	byID, ok := s.contracts[c.DynastyID]
	if !ok {
		return fmt.Errorf("contract %s not found", c.ID)
	}
	if _, exists := byID[c.ID]; !exists {
		return fmt.Errorf("contract %s not found", c.ID)
	}
	byID[c.ID] = c.Clone()
	return nil
}

func (s *state) getContract(dynastyID, contractID string) (contract.Contract, bool, error) {
	c, ok := s.contracts[dynastyID][contractID]
	if !ok {
		return contract.Contract{}, false, nil
	}
	return c.Clone(), true, nil
}

func (s *state) listTeamContracts(dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error) {
	var out []contract.Contract
	for _, c := range s.contracts[dynastyID] {
		if c.TeamID != teamID {
			continue
		}
		if season != 0 && (season < c.StartYear || season > c.EndYear) {
			continue
		}
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
