package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/contract"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

const contractYearUpsertSuffix = `
ON CONFLICT (contract_id, season_year)
DO UPDATE SET
    base_salary = EXCLUDED.base_salary,
    roster_bonus = EXCLUDED.roster_bonus,
    workout_bonus = EXCLUDED.workout_bonus,
    option_bonus = EXCLUDED.option_bonus,
    signing_bonus_proration = EXCLUDED.signing_bonus_proration,
    option_bonus_proration = EXCLUDED.option_bonus_proration,
    guaranteed = EXCLUDED.guaranteed,
    guarantee_type = EXCLUDED.guarantee_type,
    cash_paid = EXCLUDED.cash_paid,
    voided = EXCLUDED.voided`

func (l *Ledger) InsertContract(ctx context.Context, c contract.Contract) error {
	if err := c.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("contracts", contractToRow(c), "")
	if err != nil {
		return crerr.Wrap(err, "build insert contract query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "insert contract %s", c.ID)
	}
	return l.writeYearDetails(ctx, c)
}

func (l *Ledger) UpdateContract(ctx context.Context, c contract.Contract) error {
	query, args, err := qb.Update("contracts").
		Set("kind", string(c.Kind)).
		Set("end_year", c.EndYear).
		Set("years", c.Years).
		Set("total_value", int64(c.TotalValue)).
		Set("total_guarantee", int64(c.TotalGuarantee)).
		Set("active", c.Active).
		Set("voided_at", contractToRow(c).VoidedAt).
		Where(
			qb.Eq("id", c.ID),
			qb.Eq("dynasty_id", c.DynastyID),
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build update contract query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "update contract %s", c.ID)
	}
	return l.writeYearDetails(ctx, c)
}

func (l *Ledger) writeYearDetails(ctx context.Context, c contract.Contract) error {
	for _, d := range c.YearDetails {
		query, args, err := qb.InsertModel(
			"contract_year_details",
			contractYearToRow(c.DynastyID, d),
			contractYearUpsertSuffix,
		)
		if err != nil {
			return crerr.Wrap(err, "build upsert contract year query")
		}
		if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "upsert contract %s year %d", c.ID, d.SeasonYear)
		}
	}
	return nil
}

func (l *Ledger) GetContract(ctx context.Context, dynastyID, contractID string) (contract.Contract, bool, error) {
	query, args, err := qb.Select("*").From("contracts").
		Where(
			qb.Eq("id", contractID),
			qb.Eq("dynasty_id", dynastyID),
		).
		ToSQL()
	if err != nil {
		return contract.Contract{}, false, crerr.Wrap(err, "build get contract query")
	}

	var row contractTableModel
	if err := sqlx.GetContext(ctx, l.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contract.Contract{}, false, nil
		}
		return contract.Contract{}, false, crerr.Wrapf(err, "get contract %s", contractID)
	}

	years, err := l.contractYears(ctx, dynastyID, contractID)
	if err != nil {
		return contract.Contract{}, false, err
	}
	return contractFromRow(row, years), true, nil
}

func (l *Ledger) contractYears(ctx context.Context, dynastyID, contractID string) ([]contractYearTableModel, error) {
	query, args, err := qb.Select("*").From("contract_year_details").
		Where(
			qb.Eq("contract_id", contractID),
			qb.Eq("dynasty_id", dynastyID),
		).
		OrderBy("year_index").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build contract years query")
	}

	var rows []contractYearTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list years for contract %s", contractID)
	}
	return rows, nil
}

func (l *Ledger) ListTeamContracts(ctx context.Context, dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error) {
	conditions := []qb.Condition{
		qb.Eq("dynasty_id", dynastyID),
		qb.Eq("team_id", teamID),
	}
	if season != 0 {
		conditions = append(conditions,
			qb.Expr("start_year <= ?", season),
			qb.Expr("end_year >= ?", season),
		)
	}
	if activeOnly {
		conditions = append(conditions, qb.Eq("active", true))
	}

	query, args, err := qb.Select("*").From("contracts").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list team contracts query")
	}

	var rows []contractTableModel
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list contracts for team %s", teamID)
	}

	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		years, err := l.contractYears(ctx, dynastyID, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, contractFromRow(row, years))
	}
	return out, nil
}
