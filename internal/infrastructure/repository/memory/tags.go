package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gridironsim/capengine/internal/domain/tag"
)

func (l *Ledger) InsertTag(_ context.Context, t tag.Tag) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.insertTag(t)
}

func (l *Ledger) ListTeamTags(_ context.Context, dynastyID, teamID string, season int) ([]tag.Tag, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.listTeamTags(dynastyID, teamID, season)
}

func (l *Ledger) TagHistory(_ context.Context, dynastyID, playerID, teamID string) ([]tag.Tag, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.tagHistory(dynastyID, playerID, teamID)
}

func (l *Ledger) InsertTender(_ context.Context, t tag.Tender) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.insertTender(t)
}

func (l *Ledger) GetTender(_ context.Context, dynastyID, tenderID string) (tag.Tender, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.getTender(dynastyID, tenderID)
}

func (l *Ledger) UpdateTender(_ context.Context, t tag.Tender) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.updateTender(t)
}

func (t *txLedger) InsertTag(_ context.Context, tg tag.Tag) error {
	return t.state.insertTag(tg)
}

func (t *txLedger) ListTeamTags(_ context.Context, dynastyID, teamID string, season int) ([]tag.Tag, error) {
	return t.state.listTeamTags(dynastyID, teamID, season)
}

func (t *txLedger) TagHistory(_ context.Context, dynastyID, playerID, teamID string) ([]tag.Tag, error) {
	return t.state.tagHistory(dynastyID, playerID, teamID)
}

func (t *txLedger) InsertTender(_ context.Context, tn tag.Tender) error {
	return t.state.insertTender(tn)
}

func (t *txLedger) GetTender(_ context.Context, dynastyID, tenderID string) (tag.Tender, bool, error) {
	return t.state.getTender(dynastyID, tenderID)
}

func (t *txLedger) UpdateTender(_ context.Context, tn tag.Tender) error {
	return t.state.updateTender(tn)
}

func (s *state) insertTag(t tag.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}
	for _, existing := range s.tags {
		if existing.ID == t.ID {
			return fmt.Errorf("tag %s already exists", t.ID)
		}
	}
	s.tags = append(s.tags, t)
	return nil
}

func (s *state) listTeamTags(dynastyID, teamID string, season int) ([]tag.Tag, error) {
	var out []tag.Tag
	for _, t := range s.tags {
		if t.DynastyID == dynastyID && t.TeamID == teamID && t.Season == season {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *state) tagHistory(dynastyID, playerID, teamID string) ([]tag.Tag, error) {
	var out []tag.Tag
	for _, t := range s.tags {
		if t.DynastyID == dynastyID && t.PlayerID == playerID && t.TeamID == teamID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out, nil
}

func (s *state) insertTender(t tag.Tender) error {
	if err := t.Validate(); err != nil {
		return err
	}
	byID, ok := s.tenders[t.DynastyID]
	if !ok {
		byID = make(map[string]tag.Tender)
		s.tenders[t.DynastyID] = byID
	}
	if _, exists := byID[t.ID]; exists {
		return fmt.Errorf("tender %s already exists", t.ID)
	}
	byID[t.ID] = t
	return nil
}

func (s *state) getTender(dynastyID, tenderID string) (tag.Tender, bool, error) {
	t, ok := s.tenders[dynastyID][tenderID]
	return t, ok, nil
}

func (s *state) updateTender(t tag.Tender) error {
	byID, ok := s.tenders[t.DynastyID]
	if !ok {
		return fmt.Errorf("tender %s not found", t.ID)
	}
	if _, exists := byID[t.ID]; !exists {
		return fmt.Errorf("tender %s not found", t.ID)
	}
	byID[t.ID] = t
	return nil
}
