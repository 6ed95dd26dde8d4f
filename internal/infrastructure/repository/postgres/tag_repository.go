package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/tag"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

func (l *Ledger) InsertTag(ctx context.Context, t tag.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("player_tags", tagToRow(t), "")
	if err != nil {
		return crerr.Wrap(err, "build insert tag query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert tag %s", t.ID)
	}
	return nil
}

func (l *Ledger) ListTeamTags(ctx context.Context, dynastyID, teamID string, season int) ([]tag.Tag, error) {
	query, args, err := qb.Select("*").From("player_tags").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
		).
		OrderBy("tagged_at").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list team tags query")
	}

	var rows []tagTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list tags for team %s season %d", teamID, season)
	}

	out := make([]tag.Tag, 0, len(rows))
	for _, row := range rows {
		out = append(out, tagFromRow(row))
	}
	return out, nil
}

func (l *Ledger) TagHistory(ctx context.Context, dynastyID, playerID, teamID string) ([]tag.Tag, error) {
	query, args, err := qb.Select("*").From("player_tags").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("player_id", playerID),
			qb.Eq("team_id", teamID),
		).
		OrderBy("season").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build tag history query")
	}

	var rows []tagTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "tag history for player %s", playerID)
	}

	out := make([]tag.Tag, 0, len(rows))
	for _, row := range rows {
		out = append(out, tagFromRow(row))
	}
	return out, nil
}

func (l *Ledger) InsertTender(ctx context.Context, t tag.Tender) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("rfa_tenders", tenderToRow(t), "")
	if err != nil {
		return crerr.Wrap(err, "build insert tender query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert tender %s", t.ID)
	}
	return nil
}

func (l *Ledger) GetTender(ctx context.Context, dynastyID, tenderID string) (tag.Tender, bool, error) {
	query, args, err := qb.Select("*").From("rfa_tenders").
		Where(
			qb.Eq("id", tenderID),
			qb.Eq("dynasty_id", dynastyID),
		).
		ToSQL()
	if err != nil {
		return tag.Tender{}, false, crerr.Wrap(err, "build get tender query")
	}

	var row tenderTableModel
	if err := sqlx.GetContext(ctx, l.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tag.Tender{}, false, nil
		}
		return tag.Tender{}, false, crerr.Wrapf(err, "get tender %s", tenderID)
	}
	return tenderFromRow(row), true, nil
}

func (l *Ledger) UpdateTender(ctx context.Context, t tag.Tender) error {
	query, args, err := qb.Update("rfa_tenders").
		Set("status", string(t.Status)).
		Set("contract_id", t.ContractID).
		Where(
			qb.Eq("id", t.ID),
			qb.Eq("dynasty_id", t.DynastyID),
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update tender query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "update tender %s", t.ID)
	}
	return nil
}
