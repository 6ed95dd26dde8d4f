package postgres

import (
	"database/sql"
	"time"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/platform/money"
)

type contractTableModel struct {
	ID                    string       `db:"id"`
	DynastyID             string       `db:"dynasty_id"`
	PlayerID              string       `db:"player_id"`
	TeamID                string       `db:"team_id"`
	Kind                  string       `db:"kind"`
	StartYear             int          `db:"start_year"`
	EndYear               int          `db:"end_year"`
	Years                 int          `db:"years"`
	TotalValue            int64        `db:"total_value"`
	SigningBonus          int64        `db:"signing_bonus"`
	SigningBonusProration int64        `db:"signing_bonus_proration"`
	GuaranteedAtSigning   int64        `db:"guaranteed_at_signing"`
	InjuryGuarantee       int64        `db:"injury_guarantee"`
	TotalGuarantee        int64        `db:"total_guarantee"`
	Active                bool         `db:"active"`
	SignedAt              time.Time    `db:"signed_at"`
	VoidedAt              sql.NullTime `db:"voided_at"`
}

type contractYearTableModel struct {
	ContractID            string `db:"contract_id"`
	DynastyID             string `db:"dynasty_id"`
	YearIndex             int    `db:"year_index"`
	SeasonYear            int    `db:"season_year"`
	BaseSalary            int64  `db:"base_salary"`
	RosterBonus           int64  `db:"roster_bonus"`
	WorkoutBonus          int64  `db:"workout_bonus"`
	OptionBonus           int64  `db:"option_bonus"`
	SigningBonusProration int64  `db:"signing_bonus_proration"`
	OptionBonusProration  int64  `db:"option_bonus_proration"`
	Guaranteed            bool   `db:"guaranteed"`
	GuaranteeType         string `db:"guarantee_type"`
	CashPaid              int64  `db:"cash_paid"`
	Voided                bool   `db:"voided"`
}

func contractToRow(c contract.Contract) contractTableModel {
	row := contractTableModel{
		ID:                    c.ID,
		DynastyID:             c.DynastyID,
		PlayerID:              c.PlayerID,
		TeamID:                c.TeamID,
		Kind:                  string(c.Kind),
		StartYear:             c.StartYear,
		EndYear:               c.EndYear,
		Years:                 c.Years,
		TotalValue:            int64(c.TotalValue),
		SigningBonus:          int64(c.SigningBonus),
		SigningBonusProration: int64(c.SigningBonusProration),
		GuaranteedAtSigning:   int64(c.GuaranteedAtSigning),
		InjuryGuarantee:       int64(c.InjuryGuarantee),
		TotalGuarantee:        int64(c.TotalGuarantee),
		Active:                c.Active,
		SignedAt:              c.SignedAt,
	}
	if c.VoidedAt != nil {
		row.VoidedAt = sql.NullTime{Time: *c.VoidedAt, Valid: true}
	}
	return row
}

func contractFromRow(row contractTableModel, years []contractYearTableModel) contract.Contract {
	c := contract.Contract{
		ID:                    row.ID,
		DynastyID:             row.DynastyID,
		PlayerID:              row.PlayerID,
		TeamID:                row.TeamID,
		Kind:                  contract.Kind(row.Kind),
		StartYear:             row.StartYear,
		EndYear:               row.EndYear,
		Years:                 row.Years,
		TotalValue:            money.Cents(row.TotalValue),
		SigningBonus:          money.Cents(row.SigningBonus),
		SigningBonusProration: money.Cents(row.SigningBonusProration),
		GuaranteedAtSigning:   money.Cents(row.GuaranteedAtSigning),
		InjuryGuarantee:       money.Cents(row.InjuryGuarantee),
		TotalGuarantee:        money.Cents(row.TotalGuarantee),
		Active:                row.Active,
		SignedAt:              row.SignedAt,
	}
	if row.VoidedAt.Valid {
		at := row.VoidedAt.Time
		c.VoidedAt = &at
	}
	for _, y := range years {
		c.YearDetails = append(c.YearDetails, contract.YearDetail{
			ContractID:            y.ContractID,
			YearIndex:             y.YearIndex,
			SeasonYear:            y.SeasonYear,
			BaseSalary:            money.Cents(y.BaseSalary),
			RosterBonus:           money.Cents(y.RosterBonus),
			WorkoutBonus:          money.Cents(y.WorkoutBonus),
			OptionBonus:           money.Cents(y.OptionBonus),
			SigningBonusProration: money.Cents(y.SigningBonusProration),
			OptionBonusProration:  money.Cents(y.OptionBonusProration),
			Guaranteed:            y.Guaranteed,
			GuaranteeType:         contract.GuaranteeType(y.GuaranteeType),
			CashPaid:              money.Cents(y.CashPaid),
			Voided:                y.Voided,
		})
	}
	return c
}

func contractYearToRow(dynastyID string, d contract.YearDetail) contractYearTableModel {
	return contractYearTableModel{
		ContractID:            d.ContractID,
		DynastyID:             dynastyID,
		YearIndex:             d.YearIndex,
		SeasonYear:            d.SeasonYear,
		BaseSalary:            int64(d.BaseSalary),
		RosterBonus:           int64(d.RosterBonus),
		WorkoutBonus:          int64(d.WorkoutBonus),
		OptionBonus:           int64(d.OptionBonus),
		SigningBonusProration: int64(d.SigningBonusProration),
		OptionBonusProration:  int64(d.OptionBonusProration),
		Guaranteed:            d.Guaranteed,
		GuaranteeType:         string(d.GuaranteeType),
		CashPaid:              int64(d.CashPaid),
		Voided:                d.Voided,
	}
}
