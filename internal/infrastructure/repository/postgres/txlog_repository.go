package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/txlog"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

// The log table is append-only. There is deliberately no update or delete
// path; the primary key rejects replays of the same entry id.
func (l *Ledger) AppendTransactionLog(ctx context.Context, e txlog.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	row, err := txLogEntryToRow(e)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("cap_transaction_log", row, "")
	if err != nil {
		return crerr.Wrap(err, "build append transaction log query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "append transaction log entry %s", e.ID)
	}
	return nil
}

func (l *Ledger) ListTransactionLog(ctx context.Context, dynastyID, teamID string, season int) ([]txlog.Entry, error) {
	query, args, err := qb.Select("*").From("cap_transaction_log").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
		).
		OrderBy("date", "id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list transaction log query")
	}

	var rows []txLogTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list transaction log for team %s season %d", teamID, season)
	}

	out := make([]txlog.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := txLogEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
