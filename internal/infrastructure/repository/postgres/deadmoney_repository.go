package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/platform/money"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

type deadMoneyTableModel struct {
	ID                 string    `db:"id"`
	DynastyID          string    `db:"dynasty_id"`
	TeamID             string    `db:"team_id"`
	PlayerID           string    `db:"player_id"`
	ContractID         string    `db:"contract_id"`
	Season             int       `db:"season"`
	June1              bool      `db:"june_1"`
	CurrentYear        int64     `db:"current_year"`
	NextYear           int64     `db:"next_year"`
	BonusComponent     int64     `db:"bonus_component"`
	GuaranteeComponent int64     `db:"guarantee_component"`
	CreatedAt          time.Time `db:"created_at"`
}

func (l *Ledger) InsertDeadMoneyRecord(ctx context.Context, r deadmoney.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	row := deadMoneyTableModel{
		ID:                 r.ID,
		DynastyID:          r.DynastyID,
		TeamID:             r.TeamID,
		PlayerID:           r.PlayerID,
		ContractID:         r.ContractID,
		Season:             r.Season,
		June1:              r.June1,
		CurrentYear:        int64(r.CurrentYear),
		NextYear:           int64(r.NextYear),
		BonusComponent:     int64(r.BonusComponent),
		GuaranteeComponent: int64(r.GuaranteeComponent),
		CreatedAt:          r.CreatedAt,
	}
	query, args, err := qb.InsertModel("dead_money_records", row, "")
	if err != nil {
		return crerr.Wrap(err, "build insert dead money query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert dead money record %s", r.ID)
	}
	return nil
}

// ListDeadMoney returns every record that can charge against the season:
// the season's own releases and the prior season's June 1 deferrals.
func (l *Ledger) ListDeadMoney(ctx context.Context, dynastyID, teamID string, season int) ([]deadmoney.Record, error) {
	query, args, err := qb.Select("*").From("dead_money_records").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("team_id", teamID),
			qb.Expr("(season = ? OR (june_1 AND season = ?))", season, season-1),
		).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list dead money query")
	}

	var rows []deadMoneyTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list dead money for team %s season %d", teamID, season)
	}

	out := make([]deadmoney.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, deadmoney.Record{
			ID:                 row.ID,
			DynastyID:          row.DynastyID,
			TeamID:             row.TeamID,
			PlayerID:           row.PlayerID,
			ContractID:         row.ContractID,
			Season:             row.Season,
			June1:              row.June1,
			CurrentYear:        money.Cents(row.CurrentYear),
			NextYear:           money.Cents(row.NextYear),
			BonusComponent:     money.Cents(row.BonusComponent),
			GuaranteeComponent: money.Cents(row.GuaranteeComponent),
			CreatedAt:          row.CreatedAt,
		})
	}
	return out, nil
}

func (l *Ledger) HasReleaseRecord(ctx context.Context, dynastyID, contractID string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("dead_money_records").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("contract_id", contractID),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build release record query")
	}

	var count int
	if err := sqlx.GetContext(ctx, l.q, &count, query, args...); err != nil {
		return false, crerr.Wrapf(err, "check release record for contract %s", contractID)
	}
	return count > 0, nil
}
