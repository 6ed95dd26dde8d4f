package usecase

import (
	"context"
	"fmt"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// validate is the pre-execution middleware: read-only checks per request
// kind. Anything it rejects provably did not mutate state.
func (s *BridgeService) validate(ctx context.Context, req Request) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BridgeService.validate")
	defer span.End()

	switch r := req.(type) {
	case SignContractRequest:
		return s.validateSign(ctx, r)
	case RestructureRequest:
		return s.validateRestructure(ctx, r)
	case ReleaseRequest:
		return s.validateRelease(ctx, r)
	case ApplyTagRequest:
		return s.validateApplyTag(ctx, r)
	case RFATenderRequest:
		return s.validateTender(ctx, r)
	default:
		return NewValidationError("unhandled request kind %q", req.requestKind())
	}
}

func (s *BridgeService) validateSign(ctx context.Context, r SignContractRequest) error {
	if r.Years <= 0 || len(r.YearTerms) != r.Years {
		return NewValidationError("contract shape: %d year terms for %d years", len(r.YearTerms), r.Years)
	}
	for i, terms := range r.YearTerms {
		if terms.BaseSalary < 0 || terms.RosterBonus < 0 || terms.WorkoutBonus < 0 {
			return NewValidationError("contract shape: year %d has a negative component", i+1)
		}
	}
	if r.SigningBonus < 0 {
		return NewValidationError("contract shape: negative signing bonus")
	}

	firstYearHit := r.YearTerms[0].BaseSalary + r.YearTerms[0].RosterBonus + r.YearTerms[0].WorkoutBonus +
		capmath.Proration(r.SigningBonus, r.Years, capmath.DefaultProrationCapYears)
	return s.checkCapRoom(ctx, r.DynastyID, r.TeamID, r.StartYear, firstYearHit)
}

func (s *BridgeService) validateRestructure(ctx context.Context, r RestructureRequest) error {
	if r.Amount <= 0 {
		return NewValidationError("conversion amount must be positive")
	}

	c, found, err := s.contracts.store.GetContract(ctx, r.DynastyID, r.ContractID)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}
	if !found {
		return NewValidationError("contract %s not found", r.ContractID)
	}
	if !c.Active {
		return NewValidationError("contract %s is no longer active", r.ContractID)
	}

	detail, ok := c.YearDetailFor(r.Season)
	if !ok || detail.Voided {
		return NewValidationError("contract %s has no active year %d", r.ContractID, r.Season)
	}
	if r.Amount > detail.BaseSalary {
		return NewValidationError("cannot convert %s from a %s base salary", r.Amount, detail.BaseSalary)
	}
	if len(c.RemainingDetails(r.Season+1)) == 0 {
		return NewValidationError("%d is the final contract year; nothing to amortize into", r.Season)
	}
	// a restructure frees cap room, it never consumes it
	return nil
}

func (s *BridgeService) validateRelease(ctx context.Context, r ReleaseRequest) error {
	released, err := s.contracts.store.HasReleaseRecord(ctx, r.DynastyID, r.ContractID)
	if err != nil {
		return fmt.Errorf("check release record: %w", err)
	}
	if released {
		return NewValidationError("contract %s was already released", r.ContractID)
	}

	c, found, err := s.contracts.store.GetContract(ctx, r.DynastyID, r.ContractID)
	if err != nil {
		return fmt.Errorf("get contract: %w", err)
	}
	if !found {
		return NewValidationError("contract %s not found", r.ContractID)
	}
	if !c.Active {
		return NewValidationError("contract %s is no longer active", r.ContractID)
	}

	if r.June1 {
		used, err := s.compliance.CountJune1Designations(ctx, r.DynastyID, r.TeamID, r.Season)
		if err != nil {
			return err
		}
		if used >= s.compliance.June1Limit() {
			return NewValidationError("team %s has used all %d June 1 designations for %d",
				r.TeamID, s.compliance.June1Limit(), r.Season)
		}
	}
	return nil
}

func (s *BridgeService) validateApplyTag(ctx context.Context, r ApplyTagRequest) error {
	if r.Type != tag.TypeFranchise && r.Type != tag.TypeTransition {
		return NewValidationError("unknown tag type %q", r.Type)
	}

	existing, err := s.tags.store.ListTeamTags(ctx, r.DynastyID, r.TeamID, r.Season)
	if err != nil {
		return fmt.Errorf("list team tags: %w", err)
	}
	for _, t := range existing {
		if t.Type == r.Type {
			return NewValidationError("team %s already holds a %s tag for %d", r.TeamID, t.Type, r.Season)
		}
	}

	salary, err := s.estimateTagSalary(ctx, r)
	if err != nil {
		return err
	}
	return s.checkCapRoom(ctx, r.DynastyID, r.TeamID, r.Season, salary)
}

// estimateTagSalary mirrors the escalation the TagService will apply, using
// only reads, so cap-room validation sees the real number.
func (s *BridgeService) estimateTagSalary(ctx context.Context, r ApplyTagRequest) (money.Cents, error) {
	history, err := s.tags.store.TagHistory(ctx, r.DynastyID, r.PlayerID, r.TeamID)
	if err != nil {
		return 0, fmt.Errorf("load tag history: %w", err)
	}
	sequence, first, previous := consecutiveTagRun(history, r.Season)

	switch sequence {
	case 1:
		salary, err := s.tags.TagSalary(ctx, r.DynastyID, r.Position, r.Season, r.Type, r.Exclusive)
		if err != nil {
			return 0, err
		}
		return salary, nil
	case 2:
		return money.ApplyBasisPoints(previous, s.tags.cfg.SecondTagBps), nil
	default:
		return money.ApplyBasisPoints(first, s.tags.cfg.ThirdTagBps), nil
	}
}

func (s *BridgeService) validateTender(ctx context.Context, r RFATenderRequest) error {
	if _, ok := s.tags.cfg.TenderBases[r.Level]; !ok {
		return NewValidationError("unknown tender level %q", r.Level)
	}
	if r.PreviousSalary < 0 {
		return NewValidationError("previous salary cannot be negative")
	}
	// an offered tender has no cap impact until accepted
	return nil
}

func (s *BridgeService) checkCapRoom(ctx context.Context, dynastyID, teamID string, season int, impact money.Cents) error {
	state, err := s.compliance.currentState(ctx, dynastyID, teamID, season)
	if err != nil {
		return err
	}
	if ok, reason := capmath.ValidateTransaction(state, impact); !ok {
		return &ValidationError{Reason: reason}
	}
	return nil
}
