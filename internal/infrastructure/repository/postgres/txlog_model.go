package postgres

import (
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/money"
)

type txLogTableModel struct {
	ID               string    `db:"id"`
	DynastyID        string    `db:"dynasty_id"`
	TeamID           string    `db:"team_id"`
	PlayerID         string    `db:"player_id"`
	ContractID       string    `db:"contract_id"`
	Type             string    `db:"type"`
	Season           int       `db:"season"`
	Date             time.Time `db:"date"`
	CapImpact        int64     `db:"cap_impact"`
	FutureImpacts    []byte    `db:"future_impacts"`
	CashImpact       int64     `db:"cash_impact"`
	DeadMoneyCreated int64     `db:"dead_money_created"`
	Description      string    `db:"description"`
}

func txLogEntryToRow(e txlog.Entry) (txLogTableModel, error) {
	row := txLogTableModel{
		ID:               e.ID,
		DynastyID:        e.DynastyID,
		TeamID:           e.TeamID,
		PlayerID:         e.PlayerID,
		ContractID:       e.ContractID,
		Type:             string(e.Type),
		Season:           e.Season,
		Date:             e.Date,
		CapImpact:        int64(e.CapImpact),
		CashImpact:       int64(e.CashImpact),
		DeadMoneyCreated: int64(e.DeadMoneyCreated),
		Description:      e.Description,
	}
	impacts, err := marshalFutureImpacts(e.FutureImpacts)
	if err != nil {
		return txLogTableModel{}, err
	}
	row.FutureImpacts = impacts
	return row, nil
}

func txLogEntryFromRow(row txLogTableModel) (txlog.Entry, error) {
	impacts, err := unmarshalFutureImpacts(row.FutureImpacts)
	if err != nil {
		return txlog.Entry{}, crerr.Wrapf(err, "decode future impacts for log entry %s", row.ID)
	}
	return txlog.Entry{
		ID:               row.ID,
		DynastyID:        row.DynastyID,
		TeamID:           row.TeamID,
		PlayerID:         row.PlayerID,
		ContractID:       row.ContractID,
		Type:             txlog.Type(row.Type),
		Season:           row.Season,
		Date:             row.Date,
		CapImpact:        money.Cents(row.CapImpact),
		FutureImpacts:    impacts,
		CashImpact:       money.Cents(row.CashImpact),
		DeadMoneyCreated: money.Cents(row.DeadMoneyCreated),
		Description:      row.Description,
	}, nil
}

// Future impacts are stored as a jsonb object keyed by season. JSON object
// keys are strings, so seasons round-trip through strconv.
func marshalFutureImpacts(impacts map[int]money.Cents) ([]byte, error) {
	if len(impacts) == 0 {
		return []byte("{}"), nil
	}
	byKey := make(map[string]int64, len(impacts))
	for season, amount := range impacts {
		byKey[strconv.Itoa(season)] = int64(amount)
	}
	raw, err := sonic.Marshal(byKey)
	if err != nil {
		return nil, crerr.Wrap(err, "marshal future impacts")
	}
	return raw, nil
}

func unmarshalFutureImpacts(raw []byte) (map[int]money.Cents, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var byKey map[string]int64
	if err := sonic.Unmarshal(raw, &byKey); err != nil {
		return nil, err
	}
	if len(byKey) == 0 {
		return nil, nil
	}
	impacts := make(map[int]money.Cents, len(byKey))
	for key, amount := range byKey {
		season, err := strconv.Atoi(key)
		if err != nil {
			return nil, crerr.Wrapf(err, "invalid future impact season %q", key)
		}
		impacts[season] = money.Cents(amount)
	}
	return impacts, nil
}
