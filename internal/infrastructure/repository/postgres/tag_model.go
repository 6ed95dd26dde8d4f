package postgres

import (
	"time"

	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/platform/money"
)

type tagTableModel struct {
	ID                  string    `db:"id"`
	DynastyID           string    `db:"dynasty_id"`
	PlayerID            string    `db:"player_id"`
	TeamID              string    `db:"team_id"`
	Season              int       `db:"season"`
	Type                string    `db:"type"`
	Position            string    `db:"position"`
	Salary              int64     `db:"salary"`
	Exclusive           bool      `db:"exclusive"`
	Sequence            int       `db:"sequence"`
	TaggedAt            time.Time `db:"tagged_at"`
	DeadlineAt          time.Time `db:"deadline_at"`
	ExtensionDeadlineAt time.Time `db:"extension_deadline_at"`
	ContractID          string    `db:"contract_id"`
}

func tagToRow(t tag.Tag) tagTableModel {
	return tagTableModel{
		ID:                  t.ID,
		DynastyID:           t.DynastyID,
		PlayerID:            t.PlayerID,
		TeamID:              t.TeamID,
		Season:              t.Season,
		Type:                string(t.Type),
		Position:            t.Position,
		Salary:              int64(t.Salary),
		Exclusive:           t.Exclusive,
		Sequence:            t.Sequence,
		TaggedAt:            t.TaggedAt,
		DeadlineAt:          t.DeadlineAt,
		ExtensionDeadlineAt: t.ExtensionDeadlineAt,
		ContractID:          t.ContractID,
	}
}

func tagFromRow(row tagTableModel) tag.Tag {
	return tag.Tag{
		ID:                  row.ID,
		DynastyID:           row.DynastyID,
		PlayerID:            row.PlayerID,
		TeamID:              row.TeamID,
		Season:              row.Season,
		Type:                tag.Type(row.Type),
		Position:            row.Position,
		Salary:              money.Cents(row.Salary),
		Exclusive:           row.Exclusive,
		Sequence:            row.Sequence,
		TaggedAt:            row.TaggedAt,
		DeadlineAt:          row.DeadlineAt,
		ExtensionDeadlineAt: row.ExtensionDeadlineAt,
		ContractID:          row.ContractID,
	}
}

type tenderTableModel struct {
	ID                string    `db:"id"`
	DynastyID         string    `db:"dynasty_id"`
	PlayerID          string    `db:"player_id"`
	TeamID            string    `db:"team_id"`
	Season            int       `db:"season"`
	Level             string    `db:"level"`
	Amount            int64     `db:"amount"`
	CompensationRound int       `db:"compensation_round"`
	Status            string    `db:"status"`
	OfferedAt         time.Time `db:"offered_at"`
	ContractID        string    `db:"contract_id"`
}

func tenderToRow(t tag.Tender) tenderTableModel {
	return tenderTableModel{
		ID:                t.ID,
		DynastyID:         t.DynastyID,
		PlayerID:          t.PlayerID,
		TeamID:            t.TeamID,
		Season:            t.Season,
		Level:             string(t.Level),
		Amount:            int64(t.Amount),
		CompensationRound: t.CompensationRound,
		Status:            string(t.Status),
		OfferedAt:         t.OfferedAt,
		ContractID:        t.ContractID,
	}
}

func tenderFromRow(row tenderTableModel) tag.Tender {
	return tag.Tender{
		ID:                row.ID,
		DynastyID:         row.DynastyID,
		PlayerID:          row.PlayerID,
		TeamID:            row.TeamID,
		Season:            row.Season,
		Level:             tag.TenderLevel(row.Level),
		Amount:            money.Cents(row.Amount),
		CompensationRound: row.CompensationRound,
		Status:            tag.TenderStatus(row.Status),
		OfferedAt:         row.OfferedAt,
		ContractID:        row.ContractID,
	}
}
