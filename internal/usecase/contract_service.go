package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	idgen "github.com/gridironsim/capengine/internal/platform/id"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// ContractService owns the contract lifecycle: signing, restructuring,
// release, extension. Every mutating call is one ledger transaction.
type ContractService struct {
	store             ledger.Store
	ids               idgen.Generator
	logger            *logging.Logger
	now               func() time.Time
	prorationCapYears int
}

func NewContractService(store ledger.Store, ids idgen.Generator, logger *logging.Logger) *ContractService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContractService{
		store:             store,
		ids:               ids,
		logger:            logger,
		now:               time.Now,
		prorationCapYears: capmath.DefaultProrationCapYears,
	}
}

type YearTerms struct {
	BaseSalary    money.Cents
	RosterBonus   money.Cents
	WorkoutBonus  money.Cents
	Guaranteed    bool
	GuaranteeType contract.GuaranteeType
}

type CreateContractInput struct {
	DynastyID    string
	PlayerID     string
	TeamID       string
	Kind         contract.Kind
	StartYear    int
	Years        int
	TotalValue   money.Cents
	SigningBonus money.Cents
	YearTerms    []YearTerms
}

func (s *ContractService) CreateContract(ctx context.Context, in CreateContractInput) (contract.Contract, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.CreateContract")
	defer span.End()

	built, err := s.buildContract(in)
	if err != nil {
		return contract.Contract{}, err
	}

	var out contract.Contract
	err = s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		if err := tx.InsertContract(ctx, built); err != nil {
			return fmt.Errorf("insert contract: %w", err)
		}
		if _, err := recomputeTeamCapState(ctx, tx, in.DynastyID, in.TeamID, in.StartYear); err != nil {
			return err
		}

		entry, err := s.signLogEntry(built)
		if err != nil {
			return err
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}
		out = built
		return nil
	})
	if err != nil {
		return contract.Contract{}, err
	}

	s.logger.InfoContext(ctx, "contract created",
		"dynasty_id", out.DynastyID,
		"contract_id", out.ID,
		"team_id", out.TeamID,
		"player_id", out.PlayerID,
		"total_value", out.TotalValue.String(),
	)
	return out, nil
}

func (s *ContractService) buildContract(in CreateContractInput) (contract.Contract, error) {
	if in.Years <= 0 {
		return contract.Contract{}, fmt.Errorf("%w: contract needs at least one year", ErrInvalidContractShape)
	}
	if len(in.YearTerms) != in.Years {
		return contract.Contract{}, fmt.Errorf("%w: %d year terms for a %d-year contract", ErrInvalidContractShape, len(in.YearTerms), in.Years)
	}
	if in.SigningBonus < 0 {
		return contract.Contract{}, fmt.Errorf("%w: signing bonus cannot be negative", ErrInvalidContractShape)
	}

	var cashTotal money.Cents
	for i, terms := range in.YearTerms {
		if terms.BaseSalary < 0 || terms.RosterBonus < 0 || terms.WorkoutBonus < 0 {
			return contract.Contract{}, fmt.Errorf("%w: year %d has a negative component", ErrInvalidContractShape, i+1)
		}
		cashTotal += terms.BaseSalary + terms.RosterBonus + terms.WorkoutBonus
	}

	totalValue := in.TotalValue
	if totalValue == 0 {
		totalValue = cashTotal + in.SigningBonus
	} else if totalValue != cashTotal+in.SigningBonus {
		return contract.Contract{}, fmt.Errorf("%w: total value %s does not match terms %s", ErrInvalidContractShape, totalValue, cashTotal+in.SigningBonus)
	}

	contractID, err := s.ids.NewID()
	if err != nil {
		return contract.Contract{}, fmt.Errorf("generate contract id: %w", err)
	}

	schedule := capmath.ProrationSchedule(in.SigningBonus, in.Years, s.prorationCapYears)
	signedAt := s.now().UTC()

	c := contract.Contract{
		ID:                    contractID,
		DynastyID:             in.DynastyID,
		PlayerID:              in.PlayerID,
		TeamID:                in.TeamID,
		Kind:                  in.Kind,
		StartYear:             in.StartYear,
		EndYear:               in.StartYear + in.Years - 1,
		Years:                 in.Years,
		TotalValue:            totalValue,
		SigningBonus:          in.SigningBonus,
		SigningBonusProration: capmath.Proration(in.SigningBonus, in.Years, s.prorationCapYears),
		Active:                true,
		SignedAt:              signedAt,
	}

	var guaranteedAtSigning money.Cents
	for i, terms := range in.YearTerms {
		gtype := terms.GuaranteeType
		if gtype == "" {
			gtype = contract.GuaranteeNone
		}
		detail := contract.YearDetail{
			ContractID:    contractID,
			YearIndex:     i + 1,
			SeasonYear:    in.StartYear + i,
			BaseSalary:    terms.BaseSalary,
			RosterBonus:   terms.RosterBonus,
			WorkoutBonus:  terms.WorkoutBonus,
			Guaranteed:    terms.Guaranteed,
			GuaranteeType: gtype,
			CashPaid:      terms.BaseSalary + terms.RosterBonus + terms.WorkoutBonus,
		}
		if i < len(schedule) {
			detail.SigningBonusProration = schedule[i]
		}
		if i == 0 {
			detail.CashPaid += in.SigningBonus
		}
		if terms.Guaranteed && gtype == contract.GuaranteeFull {
			guaranteedAtSigning += terms.BaseSalary
		}
		c.YearDetails = append(c.YearDetails, detail)
	}
	c.GuaranteedAtSigning = guaranteedAtSigning + in.SigningBonus
	c.TotalGuarantee = c.GuaranteedAtSigning

	if err := c.Validate(); err != nil {
		return contract.Contract{}, fmt.Errorf("%w: %v", ErrInvalidContractShape, err)
	}
	return c, nil
}

func (s *ContractService) signLogEntry(c contract.Contract) (txlog.Entry, error) {
	entryID, err := s.ids.NewID()
	if err != nil {
		return txlog.Entry{}, fmt.Errorf("generate log entry id: %w", err)
	}

	entryType := txlog.TypeSign
	if c.Kind == contract.KindExtension {
		entryType = txlog.TypeExtension
	}

	future := make(map[int]money.Cents)
	var firstYearHit, firstYearCash money.Cents
	for _, d := range c.YearDetails {
		if d.SeasonYear == c.StartYear {
			firstYearHit = d.CapHit()
			firstYearCash = d.CashPaid
			continue
		}
		future[d.SeasonYear] = d.CapHit()
	}

	return txlog.Entry{
		ID:            entryID,
		DynastyID:     c.DynastyID,
		TeamID:        c.TeamID,
		PlayerID:      c.PlayerID,
		ContractID:    c.ID,
		Type:          entryType,
		Season:        c.StartYear,
		Date:          s.now().UTC(),
		CapImpact:     firstYearHit,
		FutureImpacts: future,
		CashImpact:    firstYearCash,
		Description: fmt.Sprintf("%d-year %s contract, total %s, bonus %s",
			c.Years, c.Kind, c.TotalValue, c.SigningBonus),
	}, nil
}

type RestructureResult struct {
	CapSavingsThisYear money.Cents
	NewCapHitsByYear   map[int]money.Cents
	// DeadMoneyIncrease is the extra acceleration a later release would
	// carry because of this conversion.
	DeadMoneyIncrease money.Cents
	Contract          contract.Contract
	LogEntry          txlog.Entry
}

// Restructure converts part of one year's base salary into a bonus
// amortized over the following years. The restructured year itself never
// receives new proration: conversions take effect going forward.
func (s *ContractService) Restructure(ctx context.Context, dynastyID, contractID string, seasonYear int, amount money.Cents) (RestructureResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.Restructure")
	defer span.End()

	if amount <= 0 {
		return RestructureResult{}, fmt.Errorf("%w: conversion amount must be positive", ErrInvalidInput)
	}

	var result RestructureResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		c, found, err := tx.GetContract(ctx, dynastyID, contractID)
		if err != nil {
			return fmt.Errorf("get contract: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
		}
		if !c.Active {
			return fmt.Errorf("%w: contract %s", ErrAlreadyReleased, contractID)
		}

		target := -1
		for i, d := range c.YearDetails {
			if d.SeasonYear == seasonYear && !d.Voided {
				target = i
				break
			}
		}
		if target < 0 {
			return fmt.Errorf("%w: contract %s has no active year %d", ErrNotFound, contractID, seasonYear)
		}
		if amount > c.YearDetails[target].BaseSalary {
			return fmt.Errorf("%w: cannot convert %s from a %s base salary", ErrInvalidInput, amount, c.YearDetails[target].BaseSalary)
		}

		var forward []int
		for i, d := range c.YearDetails {
			if d.SeasonYear > seasonYear && !d.Voided {
				forward = append(forward, i)
			}
		}
		if len(forward) == 0 {
			return fmt.Errorf("%w: %d is the final contract year", ErrNoRemainingYears, seasonYear)
		}

		schedule := capmath.ProrationSchedule(amount, len(forward), s.prorationCapYears)
		c.YearDetails[target].BaseSalary -= amount
		for i, yearIdx := range forward {
			if i >= len(schedule) {
				break
			}
			c.YearDetails[yearIdx].OptionBonusProration += schedule[i]
		}

		if err := tx.UpdateContract(ctx, c); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		if _, err := recomputeTeamCapState(ctx, tx, dynastyID, c.TeamID, seasonYear); err != nil {
			return err
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		future := make(map[int]money.Cents, len(schedule))
		for i, yearIdx := range forward {
			if i >= len(schedule) {
				break
			}
			future[c.YearDetails[yearIdx].SeasonYear] = schedule[i]
		}
		entry := txlog.Entry{
			ID:            entryID,
			DynastyID:     dynastyID,
			TeamID:        c.TeamID,
			PlayerID:      c.PlayerID,
			ContractID:    c.ID,
			Type:          txlog.TypeRestructure,
			Season:        seasonYear,
			Date:          s.now().UTC(),
			CapImpact:     -amount,
			FutureImpacts: future,
			Description:   fmt.Sprintf("converted %s of %d base salary to bonus", amount, seasonYear),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		hits := make(map[int]money.Cents, len(c.YearDetails))
		for _, d := range c.YearDetails {
			if !d.Voided {
				hits[d.SeasonYear] = d.CapHit()
			}
		}
		result = RestructureResult{
			CapSavingsThisYear: amount,
			NewCapHitsByYear:   hits,
			DeadMoneyIncrease:  amount,
			Contract:           c,
			LogEntry:           entry,
		}
		return nil
	})
	if err != nil {
		return RestructureResult{}, err
	}

	s.logger.InfoContext(ctx, "contract restructured",
		"dynasty_id", dynastyID,
		"contract_id", contractID,
		"season", seasonYear,
		"converted", amount.String(),
	)
	return result, nil
}

type ReleaseInput struct {
	DynastyID  string
	ContractID string
	Season     int
	Date       time.Time
	June1      bool
}

type ReleaseResult struct {
	CurrentYearDeadMoney money.Cents
	NextYearDeadMoney    money.Cents
	CapSpaceAfter        money.Cents
	Record               deadmoney.Record
	LogEntry             txlog.Entry
}

// Release voids the contract's remaining years and books the dead-money
// charge. A contract can be released exactly once.
func (s *ContractService) Release(ctx context.Context, in ReleaseInput) (ReleaseResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.Release")
	defer span.End()

	var result ReleaseResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		released, err := tx.HasReleaseRecord(ctx, in.DynastyID, in.ContractID)
		if err != nil {
			return fmt.Errorf("check release record: %w", err)
		}
		if released {
			return fmt.Errorf("%w: contract %s", ErrAlreadyReleased, in.ContractID)
		}

		c, found, err := tx.GetContract(ctx, in.DynastyID, in.ContractID)
		if err != nil {
			return fmt.Errorf("get contract: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: contract %s", ErrNotFound, in.ContractID)
		}
		if !c.Active {
			return fmt.Errorf("%w: contract %s", ErrAlreadyReleased, in.ContractID)
		}

		current, next := capmath.DeadMoney(c, in.Season, in.June1)

		releasedAt := in.Date
		if releasedAt.IsZero() {
			releasedAt = s.now()
		}
		releasedAt = releasedAt.UTC()

		var avoidedCash money.Cents
		for i := range c.YearDetails {
			if c.YearDetails[i].SeasonYear >= in.Season && !c.YearDetails[i].Voided {
				avoidedCash += c.YearDetails[i].CashPaid
				c.YearDetails[i].Voided = true
				c.YearDetails[i].CashPaid = 0
			}
		}
		c.Active = false
		c.VoidedAt = &releasedAt

		if err := tx.UpdateContract(ctx, c); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}

		recordID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate dead money id: %w", err)
		}
		record := deadmoney.Record{
			ID:                 recordID,
			DynastyID:          in.DynastyID,
			TeamID:             c.TeamID,
			PlayerID:           c.PlayerID,
			ContractID:         c.ID,
			Season:             in.Season,
			June1:              in.June1,
			CurrentYear:        current,
			NextYear:           next,
			BonusComponent:     current + next - guaranteeComponent(c, in.Season),
			GuaranteeComponent: guaranteeComponent(c, in.Season),
			CreatedAt:          releasedAt,
		}
		if err := record.Validate(); err != nil {
			return fmt.Errorf("dead money record: %w", err)
		}
		if err := tx.InsertDeadMoneyRecord(ctx, record); err != nil {
			return fmt.Errorf("insert dead money record: %w", err)
		}

		state, err := recomputeTeamCapState(ctx, tx, in.DynastyID, c.TeamID, in.Season)
		if err != nil {
			return err
		}
		if in.June1 && next > 0 {
			if _, err := recomputeTeamCapState(ctx, tx, in.DynastyID, c.TeamID, in.Season+1); err != nil {
				return err
			}
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		future := map[int]money.Cents{}
		if next > 0 {
			future[in.Season+1] = next
		}
		entry := txlog.Entry{
			ID:               entryID,
			DynastyID:        in.DynastyID,
			TeamID:           c.TeamID,
			PlayerID:         c.PlayerID,
			ContractID:       c.ID,
			Type:             txlog.TypeRelease,
			Season:           in.Season,
			Date:             releasedAt,
			CapImpact:        current,
			FutureImpacts:    future,
			CashImpact:       -avoidedCash,
			DeadMoneyCreated: current + next,
			Description:      releaseDescription(c, in.June1),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		result = ReleaseResult{
			CurrentYearDeadMoney: current,
			NextYearDeadMoney:    next,
			CapSpaceAfter:        capmath.CapSpace(state),
			Record:               record,
			LogEntry:             entry,
		}
		return nil
	})
	if err != nil {
		return ReleaseResult{}, err
	}

	s.logger.InfoContext(ctx, "contract released",
		"dynasty_id", in.DynastyID,
		"contract_id", in.ContractID,
		"season", in.Season,
		"june_1", in.June1,
		"dead_money", (result.CurrentYearDeadMoney + result.NextYearDeadMoney).String(),
	)
	return result, nil
}

func guaranteeComponent(c contract.Contract, releaseSeason int) money.Cents {
	var total money.Cents
	for _, d := range c.YearDetails {
		if d.SeasonYear >= releaseSeason && d.Guaranteed && d.GuaranteeType == contract.GuaranteeFull {
			total += d.BaseSalary
		}
	}
	return total
}

func releaseDescription(c contract.Contract, june1 bool) string {
	if june1 {
		return fmt.Sprintf("released %s (June 1 designation)", c.PlayerID)
	}
	return fmt.Sprintf("released %s", c.PlayerID)
}

type ExtendContractInput struct {
	DynastyID       string
	ContractID      string
	Season          int
	AdditionalYears int
	SigningBonus    money.Cents
	YearTerms       []YearTerms
}

// Extend appends new years to an active contract. The extension bonus is
// amortized from the extension season forward, capped at the usual window,
// without touching the original signing-bonus schedule.
func (s *ContractService) Extend(ctx context.Context, in ExtendContractInput) (contract.Contract, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.Extend")
	defer span.End()

	if in.AdditionalYears <= 0 {
		return contract.Contract{}, fmt.Errorf("%w: extension needs at least one new year", ErrInvalidContractShape)
	}
	if len(in.YearTerms) != in.AdditionalYears {
		return contract.Contract{}, fmt.Errorf("%w: %d year terms for %d new years", ErrInvalidContractShape, len(in.YearTerms), in.AdditionalYears)
	}

	var out contract.Contract
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		c, found, err := tx.GetContract(ctx, in.DynastyID, in.ContractID)
		if err != nil {
			return fmt.Errorf("get contract: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: contract %s", ErrNotFound, in.ContractID)
		}
		if !c.Active {
			return fmt.Errorf("%w: contract %s", ErrAlreadyReleased, in.ContractID)
		}

		var newCash money.Cents
		for i, terms := range in.YearTerms {
			gtype := terms.GuaranteeType
			if gtype == "" {
				gtype = contract.GuaranteeNone
			}
			seasonYear := c.EndYear + 1 + i
			c.YearDetails = append(c.YearDetails, contract.YearDetail{
				ContractID:    c.ID,
				YearIndex:     c.Years + i + 1,
				SeasonYear:    seasonYear,
				BaseSalary:    terms.BaseSalary,
				RosterBonus:   terms.RosterBonus,
				WorkoutBonus:  terms.WorkoutBonus,
				Guaranteed:    terms.Guaranteed,
				GuaranteeType: gtype,
				CashPaid:      terms.BaseSalary + terms.RosterBonus + terms.WorkoutBonus,
			})
			newCash += terms.BaseSalary + terms.RosterBonus + terms.WorkoutBonus
		}

		// amortize the new bonus across the seasons still to be played
		var forward []int
		for i, d := range c.YearDetails {
			if d.SeasonYear >= in.Season && !d.Voided {
				forward = append(forward, i)
			}
		}
		schedule := capmath.ProrationSchedule(in.SigningBonus, len(forward), s.prorationCapYears)
		for i, yearIdx := range forward {
			if i >= len(schedule) {
				break
			}
			c.YearDetails[yearIdx].OptionBonusProration += schedule[i]
		}
		if len(forward) > 0 && in.SigningBonus > 0 {
			c.YearDetails[forward[0]].CashPaid += in.SigningBonus
		}

		c.Kind = contract.KindExtension
		c.Years += in.AdditionalYears
		c.EndYear += in.AdditionalYears
		c.TotalValue += newCash + in.SigningBonus

		if err := tx.UpdateContract(ctx, c); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		if _, err := recomputeTeamCapState(ctx, tx, in.DynastyID, c.TeamID, in.Season); err != nil {
			return err
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		future := make(map[int]money.Cents)
		for _, d := range c.YearDetails {
			if d.SeasonYear > in.Season && !d.Voided {
				future[d.SeasonYear] = d.CapHit()
			}
		}
		var currentHit money.Cents
		if d, ok := c.YearDetailFor(in.Season); ok {
			currentHit = d.CapHit()
		}
		entry := txlog.Entry{
			ID:            entryID,
			DynastyID:     in.DynastyID,
			TeamID:        c.TeamID,
			PlayerID:      c.PlayerID,
			ContractID:    c.ID,
			Type:          txlog.TypeExtension,
			Season:        in.Season,
			Date:          s.now().UTC(),
			CapImpact:     currentHit,
			FutureImpacts: future,
			CashImpact:    in.SigningBonus,
			Description:   fmt.Sprintf("%d-year extension, new money %s", in.AdditionalYears, newCash+in.SigningBonus),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		out = c
		return nil
	})
	if err != nil {
		return contract.Contract{}, err
	}

	s.logger.InfoContext(ctx, "contract extended",
		"dynasty_id", in.DynastyID,
		"contract_id", in.ContractID,
		"added_years", in.AdditionalYears,
	)
	return out, nil
}

type YearBreakdown struct {
	SeasonYear            int
	BaseSalary            money.Cents
	RosterBonus           money.Cents
	WorkoutBonus          money.Cents
	SigningBonusProration money.Cents
	OptionBonusProration  money.Cents
	CapHit                money.Cents
	CashPaid              money.Cents
	Guaranteed            bool
	Voided                bool
}

type ContractBreakdown struct {
	Contract    contract.Contract
	Years       []YearBreakdown
	TotalCapHit money.Cents
	TotalCash   money.Cents
}

// GetContractBreakdown is the read-only year-by-year reporting view.
func (s *ContractService) GetContractBreakdown(ctx context.Context, dynastyID, contractID string) (ContractBreakdown, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContractService.GetContractBreakdown")
	defer span.End()

	c, found, err := s.store.GetContract(ctx, dynastyID, contractID)
	if err != nil {
		return ContractBreakdown{}, fmt.Errorf("get contract: %w", err)
	}
	if !found {
		return ContractBreakdown{}, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}

	return buildContractBreakdown(c), nil
}

func buildContractBreakdown(c contract.Contract) ContractBreakdown {
	out := ContractBreakdown{Contract: c}
	for _, d := range c.YearDetails {
		out.Years = append(out.Years, YearBreakdown{
			SeasonYear:            d.SeasonYear,
			BaseSalary:            d.BaseSalary,
			RosterBonus:           d.RosterBonus,
			WorkoutBonus:          d.WorkoutBonus,
			SigningBonusProration: d.SigningBonusProration,
			OptionBonusProration:  d.OptionBonusProration,
			CapHit:                d.CapHit(),
			CashPaid:              d.CashPaid,
			Guaranteed:            d.Guaranteed,
			Voided:                d.Voided,
		})
		out.TotalCapHit += d.CapHit()
		out.TotalCash += d.CashPaid
	}
	return out
}
