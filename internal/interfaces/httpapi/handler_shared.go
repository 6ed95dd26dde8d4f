package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/usecase"
)

func parseSeason(raw string) (int, error) {
	season, err := strconv.Atoi(raw)
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, raw)
	}
	return season, nil
}

type signContractRequest struct {
	PlayerID          string             `json:"player_id" validate:"required"`
	Kind              string             `json:"kind" validate:"required,oneof=ROOKIE VETERAN EXTENSION"`
	StartYear         int                `json:"start_year" validate:"required,min=2000"`
	Years             int                `json:"years" validate:"required,min=1,max=10"`
	SigningBonusCents int64              `json:"signing_bonus_cents" validate:"min=0"`
	YearTerms         []yearTermsRequest `json:"year_terms" validate:"required,min=1,dive"`
}

type yearTermsRequest struct {
	BaseSalaryCents   int64  `json:"base_salary_cents" validate:"min=0"`
	RosterBonusCents  int64  `json:"roster_bonus_cents" validate:"min=0"`
	WorkoutBonusCents int64  `json:"workout_bonus_cents" validate:"min=0"`
	Guaranteed        bool   `json:"guaranteed"`
	GuaranteeType     string `json:"guarantee_type" validate:"omitempty,oneof=FULL INJURY SKILL NONE"`
}

type restructureRequest struct {
	ContractID  string `json:"contract_id" validate:"required"`
	Season      int    `json:"season" validate:"required,min=2000"`
	AmountCents int64  `json:"amount_cents" validate:"required,min=1"`
}

type releaseRequest struct {
	ContractID string    `json:"contract_id" validate:"required"`
	Season     int       `json:"season" validate:"required,min=2000"`
	Date       time.Time `json:"date"`
	June1      bool      `json:"june_1"`
}

type extendContractRequest struct {
	Season            int                `json:"season" validate:"required,min=2000"`
	AdditionalYears   int                `json:"additional_years" validate:"required,min=1,max=10"`
	SigningBonusCents int64              `json:"signing_bonus_cents" validate:"min=0"`
	YearTerms         []yearTermsRequest `json:"year_terms" validate:"required,min=1,dive"`
}

type applyTagRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	Position  string `json:"position" validate:"required,max=8"`
	Season    int    `json:"season" validate:"required,min=2000"`
	Type      string `json:"type" validate:"required,oneof=FRANCHISE TRANSITION"`
	Exclusive bool   `json:"exclusive"`
}

type rfaTenderRequest struct {
	PlayerID            string `json:"player_id" validate:"required"`
	Season              int    `json:"season" validate:"required,min=2000"`
	Level               string `json:"level" validate:"required,oneof=FIRST_ROUND SECOND_ROUND ORIGINAL_ROUND RIGHT_OF_FIRST_REFUSAL"`
	PreviousSalaryCents int64  `json:"previous_salary_cents" validate:"min=0"`
}

type complianceSweepRequest struct {
	DynastyID     string    `json:"dynasty_id" validate:"required"`
	Season        int       `json:"season" validate:"required,min=2000"`
	Deadline      time.Time `json:"deadline" validate:"required"`
	RollCarryover bool      `json:"roll_carryover"`
}

type transactionResultDTO struct {
	Status                string       `json:"status"`
	Kind                  string       `json:"kind"`
	ContractID            string       `json:"contractId,omitempty"`
	CapSpaceAfterCents    int64        `json:"capSpaceAfterCents"`
	DeadMoneyCreatedCents int64        `json:"deadMoneyCreatedCents,omitempty"`
	TagSalaryCents        int64        `json:"tagSalaryCents,omitempty"`
	TenderAmountCents     int64        `json:"tenderAmountCents,omitempty"`
	Reason                string       `json:"reason,omitempty"`
	LogEntry              *logEntryDTO `json:"logEntry,omitempty"`
}

type logEntryDTO struct {
	ID                    string        `json:"id"`
	TeamID                string        `json:"teamId"`
	PlayerID              string        `json:"playerId,omitempty"`
	ContractID            string        `json:"contractId,omitempty"`
	Type                  string        `json:"type"`
	Season                int           `json:"season"`
	Date                  time.Time     `json:"date"`
	CapImpactCents        int64         `json:"capImpactCents"`
	FutureImpactsCents    map[int]int64 `json:"futureImpactsCents,omitempty"`
	CashImpactCents       int64         `json:"cashImpactCents"`
	DeadMoneyCreatedCents int64         `json:"deadMoneyCreatedCents"`
	Description           string        `json:"description,omitempty"`
}

type teamCapSummaryDTO struct {
	DynastyID            string              `json:"dynastyId"`
	TeamID               string              `json:"teamId"`
	Season               int                 `json:"season"`
	CapLimitCents        int64               `json:"capLimitCents"`
	CarryoverCents       int64               `json:"carryoverCents"`
	CommittedTotalCents  int64               `json:"committedTotalCents"`
	DeadMoneyTotalCents  int64               `json:"deadMoneyTotalCents"`
	IncentivesTotalCents int64               `json:"incentivesTotalCents"`
	PracticeSquadCents   int64               `json:"practiceSquadCents"`
	CapSpaceCents        int64               `json:"capSpaceCents"`
	RosterMode           string              `json:"rosterMode"`
	ActiveContracts      int                 `json:"activeContracts"`
	TopCapHits           []contractCapHitDTO `json:"topCapHits,omitempty"`
}

type contractCapHitDTO struct {
	ContractID  string `json:"contractId"`
	PlayerID    string `json:"playerId"`
	CapHitCents int64  `json:"capHitCents"`
}

type contractBreakdownDTO struct {
	ContractID        string             `json:"contractId"`
	PlayerID          string             `json:"playerId"`
	TeamID            string             `json:"teamId"`
	Kind              string             `json:"kind"`
	StartYear         int                `json:"startYear"`
	EndYear           int                `json:"endYear"`
	Years             int                `json:"years"`
	TotalValueCents   int64              `json:"totalValueCents"`
	SigningBonusCents int64              `json:"signingBonusCents"`
	Active            bool               `json:"active"`
	TotalCapHitCents  int64              `json:"totalCapHitCents"`
	TotalCashCents    int64              `json:"totalCashCents"`
	YearBreakdowns    []yearBreakdownDTO `json:"yearBreakdowns"`
}

type yearBreakdownDTO struct {
	SeasonYear                 int   `json:"seasonYear"`
	BaseSalaryCents            int64 `json:"baseSalaryCents"`
	RosterBonusCents           int64 `json:"rosterBonusCents"`
	WorkoutBonusCents          int64 `json:"workoutBonusCents"`
	SigningBonusProrationCents int64 `json:"signingBonusProrationCents"`
	OptionBonusProrationCents  int64 `json:"optionBonusProrationCents"`
	CapHitCents                int64 `json:"capHitCents"`
	CashPaidCents              int64 `json:"cashPaidCents"`
	Guaranteed                 bool  `json:"guaranteed"`
	Voided                     bool  `json:"voided"`
}

type violationDTO struct {
	TeamID         string    `json:"teamId"`
	Season         int       `json:"season"`
	Kind           string    `json:"kind"`
	ShortfallCents int64     `json:"shortfallCents"`
	Deadline       time.Time `json:"deadline,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}

type complianceReportDTO struct {
	Season     int                 `json:"season"`
	Teams      []teamCapSummaryDTO `json:"teams"`
	Violations []violationDTO      `json:"violations,omitempty"`
}

func transactionResultToDTO(ctx context.Context, result usecase.TransactionResult) transactionResultDTO {
	_, span := startSpan(ctx, "httpapi.transactionResultToDTO")
	defer span.End()

	out := transactionResultDTO{
		Status:                string(result.Status),
		Kind:                  result.Kind,
		ContractID:            result.ContractID,
		CapSpaceAfterCents:    int64(result.CapSpaceAfter),
		DeadMoneyCreatedCents: int64(result.DeadMoneyCreated),
		TagSalaryCents:        int64(result.TagSalary),
		TenderAmountCents:     int64(result.TenderAmount),
		Reason:                result.Reason,
	}
	if result.LogEntry != nil {
		dto := logEntryToDTO(*result.LogEntry)
		out.LogEntry = &dto
	}
	return out
}

func logEntryToDTO(entry txlog.Entry) logEntryDTO {
	out := logEntryDTO{
		ID:                    entry.ID,
		TeamID:                entry.TeamID,
		PlayerID:              entry.PlayerID,
		ContractID:            entry.ContractID,
		Type:                  string(entry.Type),
		Season:                entry.Season,
		Date:                  entry.Date,
		CapImpactCents:        int64(entry.CapImpact),
		CashImpactCents:       int64(entry.CashImpact),
		DeadMoneyCreatedCents: int64(entry.DeadMoneyCreated),
		Description:           entry.Description,
	}
	if len(entry.FutureImpacts) > 0 {
		out.FutureImpactsCents = make(map[int]int64, len(entry.FutureImpacts))
		for season, amount := range entry.FutureImpacts {
			out.FutureImpactsCents[season] = int64(amount)
		}
	}
	return out
}

func teamCapSummaryToDTO(summary usecase.TeamCapSummary) teamCapSummaryDTO {
	out := teamCapSummaryDTO{
		DynastyID:            summary.DynastyID,
		TeamID:               summary.TeamID,
		Season:               summary.Season,
		CapLimitCents:        int64(summary.CapLimit),
		CarryoverCents:       int64(summary.Carryover),
		CommittedTotalCents:  int64(summary.CommittedTotal),
		DeadMoneyTotalCents:  int64(summary.DeadMoneyTotal),
		IncentivesTotalCents: int64(summary.IncentivesTotal),
		PracticeSquadCents:   int64(summary.PracticeSquad),
		CapSpaceCents:        int64(summary.CapSpace),
		RosterMode:           string(summary.RosterMode),
		ActiveContracts:      summary.ActiveContracts,
	}
	for _, hit := range summary.TopCapHits {
		out.TopCapHits = append(out.TopCapHits, contractCapHitDTO{
			ContractID:  hit.ContractID,
			PlayerID:    hit.PlayerID,
			CapHitCents: int64(hit.CapHit),
		})
	}
	return out
}

func contractBreakdownToDTO(breakdown usecase.ContractBreakdown) contractBreakdownDTO {
	c := breakdown.Contract
	out := contractBreakdownDTO{
		ContractID:        c.ID,
		PlayerID:          c.PlayerID,
		TeamID:            c.TeamID,
		Kind:              string(c.Kind),
		StartYear:         c.StartYear,
		EndYear:           c.EndYear,
		Years:             c.Years,
		TotalValueCents:   int64(c.TotalValue),
		SigningBonusCents: int64(c.SigningBonus),
		Active:            c.Active,
		TotalCapHitCents:  int64(breakdown.TotalCapHit),
		TotalCashCents:    int64(breakdown.TotalCash),
	}
	for _, year := range breakdown.Years {
		out.YearBreakdowns = append(out.YearBreakdowns, yearBreakdownDTO{
			SeasonYear:                 year.SeasonYear,
			BaseSalaryCents:            int64(year.BaseSalary),
			RosterBonusCents:           int64(year.RosterBonus),
			WorkoutBonusCents:          int64(year.WorkoutBonus),
			SigningBonusProrationCents: int64(year.SigningBonusProration),
			OptionBonusProrationCents:  int64(year.OptionBonusProration),
			CapHitCents:                int64(year.CapHit),
			CashPaidCents:              int64(year.CashPaid),
			Guaranteed:                 year.Guaranteed,
			Voided:                     year.Voided,
		})
	}
	return out
}

func violationToDTO(v usecase.Violation) violationDTO {
	return violationDTO{
		TeamID:         v.TeamID,
		Season:         v.Season,
		Kind:           v.Kind,
		ShortfallCents: int64(v.Shortfall),
		Deadline:       v.Deadline,
		Detail:         v.Detail,
	}
}

func guaranteeTypeFromRequest(raw string, guaranteed bool) contract.GuaranteeType {
	switch contract.GuaranteeType(raw) {
	case contract.GuaranteeFull, contract.GuaranteeInjury, contract.GuaranteeSkill:
		return contract.GuaranteeType(raw)
	default:
		if guaranteed {
			return contract.GuaranteeFull
		}
		return contract.GuaranteeNone
	}
}
