package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/platform/money"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

func (l *Ledger) LeagueCapLimit(ctx context.Context, season int) (money.Cents, bool, error) {
	query, args, err := qb.Select("cap_limit").From("league_salary_caps").
		Where(qb.Eq("season", season)).
		ToSQL()
	if err != nil {
		return 0, false, crerr.Wrap(err, "build league cap limit query")
	}

	var limit int64
	if err := sqlx.GetContext(ctx, l.q, &limit, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, crerr.Wrapf(err, "get league cap limit for season %d", season)
	}
	return money.Cents(limit), true, nil
}

func (l *Ledger) TopPositionalCapHits(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return l.topPositional(ctx, "cap_hit", dynastyID, position, season, limit)
}

func (l *Ledger) TopPositionalSalaries(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	return l.topPositional(ctx, "salary", dynastyID, position, season, limit)
}

func (l *Ledger) topPositional(ctx context.Context, column, dynastyID, position string, season, limit int) ([]money.Cents, error) {
	builder := qb.Select(column).From("positional_cap_hits").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("position", position),
			qb.Eq("season", season),
		).
		OrderBy(column + " DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build positional snapshot query")
	}

	var amounts []int64
	if err := sqlx.SelectContext(ctx, l.q, &amounts, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list top %s for %s in season %d", column, position, season)
	}

	out := make([]money.Cents, 0, len(amounts))
	for _, amount := range amounts {
		out = append(out, money.Cents(amount))
	}
	return out, nil
}
