package postgres

import (
	"context"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/platform/money"
	qb "github.com/gridironsim/capengine/internal/platform/querybuilder"
)

type capStateTableModel struct {
	DynastyID          string `db:"dynasty_id"`
	TeamID             string `db:"team_id"`
	Season             int    `db:"season"`
	CapLimit           int64  `db:"cap_limit"`
	Carryover          int64  `db:"carryover"`
	CommittedTotal     int64  `db:"committed_total"`
	DeadMoneyTotal     int64  `db:"dead_money_total"`
	IncentivesTotal    int64  `db:"incentives_total"`
	PracticeSquadTotal int64  `db:"practice_squad_total"`
	RosterMode         string `db:"roster_mode"`
}

const capStateUpsertSuffix = `
ON CONFLICT (dynasty_id, team_id, season)
DO UPDATE SET
    cap_limit = EXCLUDED.cap_limit,
    carryover = EXCLUDED.carryover,
    committed_total = EXCLUDED.committed_total,
    dead_money_total = EXCLUDED.dead_money_total,
    incentives_total = EXCLUDED.incentives_total,
    practice_squad_total = EXCLUDED.practice_squad_total,
    roster_mode = EXCLUDED.roster_mode`

func (l *Ledger) UpsertTeamCapState(ctx context.Context, s capstate.TeamCapState) error {
	if err := s.Validate(); err != nil {
		return err
	}

	row := capStateTableModel{
		DynastyID:          s.DynastyID,
		TeamID:             s.TeamID,
		Season:             s.Season,
		CapLimit:           int64(s.CapLimit),
		Carryover:          int64(s.Carryover),
		CommittedTotal:     int64(s.CommittedTotal),
		DeadMoneyTotal:     int64(s.DeadMoneyTotal),
		IncentivesTotal:    int64(s.IncentivesTotal),
		PracticeSquadTotal: int64(s.PracticeSquadTotal),
		RosterMode:         string(s.RosterMode),
	}
	query, args, err := qb.InsertModel("team_cap_states", row, capStateUpsertSuffix)
	if err != nil {
		return crerr.Wrap(err, "build upsert cap state query")
	}
	if _, err := l.q.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert cap state for team %s season %d", s.TeamID, s.Season)
	}
	return nil
}

func (l *Ledger) GetTeamCapState(ctx context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error) {
	query, args, err := qb.Select("*").From("team_cap_states").
		Where(
			qb.Eq("dynasty_id", dynastyID),
			qb.Eq("team_id", teamID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return capstate.TeamCapState{}, false, crerr.Wrap(err, "build get cap state query")
	}

	var row capStateTableModel
	if err := sqlx.GetContext(ctx, l.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return capstate.TeamCapState{}, false, nil
		}
		return capstate.TeamCapState{}, false, crerr.Wrapf(err, "get cap state for team %s season %d", teamID, season)
	}

	return capstate.TeamCapState{
		DynastyID:          row.DynastyID,
		TeamID:             row.TeamID,
		Season:             row.Season,
		CapLimit:           money.Cents(row.CapLimit),
		Carryover:          money.Cents(row.Carryover),
		CommittedTotal:     money.Cents(row.CommittedTotal),
		DeadMoneyTotal:     money.Cents(row.DeadMoneyTotal),
		IncentivesTotal:    money.Cents(row.IncentivesTotal),
		PracticeSquadTotal: money.Cents(row.PracticeSquadTotal),
		RosterMode:         capstate.RosterMode(row.RosterMode),
	}, true, nil
}

func (l *Ledger) ListTeamIDs(ctx context.Context, dynastyID string) ([]string, error) {
	query, args, err := qb.Select("team_id").From("dynasty_teams").
		Where(qb.Eq("dynasty_id", dynastyID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list team ids query")
	}

	var out []string
	if err := sqlx.SelectContext(ctx, l.q, &out, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list teams for dynasty %s", dynastyID)
	}
	return out, nil
}

func (l *Ledger) CashSpentByYear(ctx context.Context, dynastyID, teamID string, seasons []int) (map[int]money.Cents, error) {
	out := make(map[int]money.Cents, len(seasons))
	if len(seasons) == 0 {
		return out, nil
	}
	for _, season := range seasons {
		out[season] = 0
	}

	placeholders := make([]string, 0, len(seasons))
	args := []any{dynastyID, teamID}
	for i, season := range seasons {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, season)
	}

	query := fmt.Sprintf(`
SELECT d.season_year, COALESCE(SUM(d.cash_paid), 0) AS cash
FROM contract_year_details d
JOIN contracts c ON c.id = d.contract_id AND c.dynasty_id = d.dynasty_id
WHERE d.dynasty_id = $1
  AND c.team_id = $2
  AND d.season_year IN (%s)
GROUP BY d.season_year`, strings.Join(placeholders, ", "))

	var rows []struct {
		SeasonYear int   `db:"season_year"`
		Cash       int64 `db:"cash"`
	}
	if err := sqlx.SelectContext(ctx, l.q, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "aggregate cash spent for team %s", teamID)
	}
	for _, row := range rows {
		out[row.SeasonYear] = money.Cents(row.Cash)
	}
	return out, nil
}
