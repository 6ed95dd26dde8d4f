package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/leaguedata"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	idgen "github.com/gridironsim/capengine/internal/platform/id"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// TagConfig carries the tunable parts of tag and tender valuation. The
// escalation percentages are league rules; the snapshot timing is genuinely
// ambiguous in the source material and therefore explicit configuration.
type TagConfig struct {
	SnapshotTiming   leaguedata.SnapshotTiming
	FranchiseSample  int
	TransitionSample int
	SecondTagBps     int64
	ThirdTagBps      int64
	TenderRaiseBps   int64
	TenderBases      map[tag.TenderLevel]money.Cents
}

func DefaultTagConfig() TagConfig {
	return TagConfig{
		SnapshotTiming:   leaguedata.TimingPriorSeason,
		FranchiseSample:  5,
		TransitionSample: 10,
		SecondTagBps:     12000,
		ThirdTagBps:      14400,
		TenderRaiseBps:   11000,
		TenderBases: map[tag.TenderLevel]money.Cents{
			tag.TenderFirstRound:          money.FromDollars(7_458_000),
			tag.TenderSecondRound:         money.FromDollars(5_346_000),
			tag.TenderOriginalRound:       money.FromDollars(3_406_000),
			tag.TenderRightOfFirstRefusal: money.FromDollars(3_116_000),
		},
	}
}

// TagService values and applies franchise/transition tags and RFA tenders.
type TagService struct {
	store  ledger.Store
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
	cfg    TagConfig
}

func NewTagService(store ledger.Store, ids idgen.Generator, cfg TagConfig, logger *logging.Logger) *TagService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FranchiseSample <= 0 {
		cfg = DefaultTagConfig()
	}
	return &TagService{
		store:  store,
		ids:    ids,
		logger: logger,
		now:    time.Now,
		cfg:    cfg,
	}
}

// TagSalary values a first-time tag. Non-exclusive tags average
// the top positional cap hits from the configured snapshot season;
// exclusive tags average the top current-year salaries instead.
func (s *TagService) TagSalary(ctx context.Context, dynastyID, position string, season int, tagType tag.Type, exclusive bool) (money.Cents, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.TagSalary")
	defer span.End()

	sample := s.cfg.FranchiseSample
	if tagType == tag.TypeTransition {
		sample = s.cfg.TransitionSample
	}

	var (
		values []money.Cents
		err    error
	)
	if exclusive {
		values, err = s.store.TopPositionalSalaries(ctx, dynastyID, position, season, sample)
	} else {
		snapshotSeason := s.cfg.SnapshotTiming.SnapshotSeason(season)
		values, err = s.store.TopPositionalCapHits(ctx, dynastyID, position, snapshotSeason, sample)
	}
	if err != nil {
		return 0, fmt.Errorf("load positional snapshot: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no positional snapshot for %s", ErrNotFound, position)
	}

	per, _ := money.SplitEven(money.Sum(values...), len(values))
	return per, nil
}

type ApplyTagInput struct {
	DynastyID string
	PlayerID  string
	TeamID    string
	Position  string
	Season    int
	Type      tag.Type
	Exclusive bool
}

type TagResult struct {
	Tag        tag.Tag
	Contract   contract.Contract
	LogEntry   txlog.Entry
	Salary     money.Cents
	Sequence   int
	FirstTag   money.Cents
	Escalation string
}

// ApplyTag values the tag under the consecutive-tag escalation rules and
// books the resulting one-year, fully guaranteed contract.
//
// Escalation: a 2nd consecutive tag pays 120% of the previous tag salary; a
// 3rd pays 144% of the ORIGINAL first-tag salary. The 3rd-tag base is the
// first tag, not the second, so the percentages never compound.
func (s *TagService) ApplyTag(ctx context.Context, in ApplyTagInput) (TagResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.ApplyTag")
	defer span.End()

	var result TagResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		existing, err := tx.ListTeamTags(ctx, in.DynastyID, in.TeamID, in.Season)
		if err != nil {
			return fmt.Errorf("list team tags: %w", err)
		}
		for _, t := range existing {
			if t.Type == in.Type && t.PlayerID != in.PlayerID {
				return fmt.Errorf("%w: %s tag held by player %s", ErrTagSlotOccupied, t.Type, t.PlayerID)
			}
			if t.PlayerID == in.PlayerID && t.Season == in.Season {
				return fmt.Errorf("%w: player %s is already tagged this season", ErrTagSlotOccupied, in.PlayerID)
			}
		}

		history, err := tx.TagHistory(ctx, in.DynastyID, in.PlayerID, in.TeamID)
		if err != nil {
			return fmt.Errorf("load tag history: %w", err)
		}
		sequence, firstSalary, prevSalary := consecutiveTagRun(history, in.Season)

		var salary money.Cents
		var escalation string
		switch sequence {
		case 1:
			salary, err = s.TagSalary(ctx, in.DynastyID, in.Position, in.Season, in.Type, in.Exclusive)
			if err != nil {
				return err
			}
			firstSalary = salary
			escalation = "positional average"
		case 2:
			salary = money.ApplyBasisPoints(prevSalary, s.cfg.SecondTagBps)
			escalation = "120% of prior tag"
		default:
			salary = money.ApplyBasisPoints(firstSalary, s.cfg.ThirdTagBps)
			escalation = "144% of first tag"
		}

		contractID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate contract id: %w", err)
		}
		taggedAt := s.now().UTC()
		tagContract := contract.Contract{
			ID:                  contractID,
			DynastyID:           in.DynastyID,
			PlayerID:            in.PlayerID,
			TeamID:              in.TeamID,
			Kind:                contractKindForTag(in.Type),
			StartYear:           in.Season,
			EndYear:             in.Season,
			Years:               1,
			TotalValue:          salary,
			GuaranteedAtSigning: salary,
			TotalGuarantee:      salary,
			Active:              true,
			SignedAt:            taggedAt,
			YearDetails: []contract.YearDetail{{
				ContractID:    contractID,
				YearIndex:     1,
				SeasonYear:    in.Season,
				BaseSalary:    salary,
				Guaranteed:    true,
				GuaranteeType: contract.GuaranteeFull,
				CashPaid:      salary,
			}},
		}
		if err := tx.InsertContract(ctx, tagContract); err != nil {
			return fmt.Errorf("insert tag contract: %w", err)
		}

		tagID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate tag id: %w", err)
		}
		applied := tag.Tag{
			ID:                  tagID,
			DynastyID:           in.DynastyID,
			PlayerID:            in.PlayerID,
			TeamID:              in.TeamID,
			Season:              in.Season,
			Type:                in.Type,
			Position:            in.Position,
			Salary:              salary,
			Exclusive:           in.Exclusive,
			Sequence:            sequence,
			TaggedAt:            taggedAt,
			DeadlineAt:          time.Date(in.Season, time.March, 4, 16, 0, 0, 0, time.UTC),
			ExtensionDeadlineAt: time.Date(in.Season, time.July, 15, 16, 0, 0, 0, time.UTC),
			ContractID:          contractID,
		}
		if err := applied.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := tx.InsertTag(ctx, applied); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}

		if _, err := recomputeTeamCapState(ctx, tx, in.DynastyID, in.TeamID, in.Season); err != nil {
			return err
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		entry := txlog.Entry{
			ID:         entryID,
			DynastyID:  in.DynastyID,
			TeamID:     in.TeamID,
			PlayerID:   in.PlayerID,
			ContractID: contractID,
			Type:       txlog.TypeTag,
			Season:     in.Season,
			Date:       taggedAt,
			CapImpact:  salary,
			CashImpact: salary,
			Description: fmt.Sprintf("%s tag #%d at %s (%s)",
				in.Type, sequence, salary, escalation),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		result = TagResult{
			Tag:        applied,
			Contract:   tagContract,
			LogEntry:   entry,
			Salary:     salary,
			Sequence:   sequence,
			FirstTag:   firstSalary,
			Escalation: escalation,
		}
		return nil
	})
	if err != nil {
		return TagResult{}, err
	}

	s.logger.InfoContext(ctx, "tag applied",
		"dynasty_id", in.DynastyID,
		"team_id", in.TeamID,
		"player_id", in.PlayerID,
		"type", string(in.Type),
		"sequence", result.Sequence,
		"salary", result.Salary.String(),
	)
	return result, nil
}

// consecutiveTagRun walks the player's tag history backwards from the
// season being tagged and reports the sequence number this tag would carry,
// the original first-tag salary in the run, and the previous tag's salary.
func consecutiveTagRun(history []tag.Tag, season int) (sequence int, first, previous money.Cents) {
	bySeason := make(map[int]tag.Tag, len(history))
	for _, t := range history {
		bySeason[t.Season] = t
	}

	run := 0
	for {
		t, ok := bySeason[season-1-run]
		if !ok {
			break
		}
		if run == 0 {
			previous = t.Salary
		}
		first = t.Salary
		run++
	}
	return run + 1, first, previous
}

func contractKindForTag(t tag.Type) contract.Kind {
	if t == tag.TypeTransition {
		return contract.KindTransitionTag
	}
	return contract.KindFranchiseTag
}

type RFATenderInput struct {
	DynastyID      string
	PlayerID       string
	TeamID         string
	Season         int
	Level          tag.TenderLevel
	PreviousSalary money.Cents
}

type TenderResult struct {
	Tender   tag.Tender
	LogEntry txlog.Entry
	Amount   money.Cents
}

// ApplyRFATender offers a qualifying tender worth the greater of the level
// base or 110% of the player's previous salary.
func (s *TagService) ApplyRFATender(ctx context.Context, in RFATenderInput) (TenderResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.ApplyRFATender")
	defer span.End()

	base, ok := s.cfg.TenderBases[in.Level]
	if !ok {
		return TenderResult{}, fmt.Errorf("%w: unknown tender level %q", ErrInvalidInput, in.Level)
	}
	amount := base
	if raised := money.ApplyBasisPoints(in.PreviousSalary, s.cfg.TenderRaiseBps); raised > amount {
		amount = raised
	}

	var result TenderResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		tenderID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate tender id: %w", err)
		}
		offered := tag.Tender{
			ID:                tenderID,
			DynastyID:         in.DynastyID,
			PlayerID:          in.PlayerID,
			TeamID:            in.TeamID,
			Season:            in.Season,
			Level:             in.Level,
			Amount:            amount,
			CompensationRound: compensationRound(in.Level),
			Status:            tag.TenderOffered,
			OfferedAt:         s.now().UTC(),
		}
		if err := offered.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := tx.InsertTender(ctx, offered); err != nil {
			return fmt.Errorf("insert tender: %w", err)
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		entry := txlog.Entry{
			ID:          entryID,
			DynastyID:   in.DynastyID,
			TeamID:      in.TeamID,
			PlayerID:    in.PlayerID,
			Type:        txlog.TypeTender,
			Season:      in.Season,
			Date:        offered.OfferedAt,
			Description: fmt.Sprintf("%s tender offered at %s", in.Level, amount),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		result = TenderResult{Tender: offered, LogEntry: entry, Amount: amount}
		return nil
	})
	if err != nil {
		return TenderResult{}, err
	}

	s.logger.InfoContext(ctx, "rfa tender offered",
		"dynasty_id", in.DynastyID,
		"team_id", in.TeamID,
		"player_id", in.PlayerID,
		"level", string(in.Level),
		"amount", result.Amount.String(),
	)
	return result, nil
}

// AcceptTender converts an offered tender into its one-year contract. The
// tender amount only counts against the cap once accepted.
func (s *TagService) AcceptTender(ctx context.Context, dynastyID, tenderID string) (TenderResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TagService.AcceptTender")
	defer span.End()

	var result TenderResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		t, found, err := tx.GetTender(ctx, dynastyID, tenderID)
		if err != nil {
			return fmt.Errorf("get tender: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: tender %s", ErrNotFound, tenderID)
		}
		if t.Status != tag.TenderOffered {
			return fmt.Errorf("%w: tender %s is %s", ErrInvalidInput, tenderID, t.Status)
		}

		contractID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate contract id: %w", err)
		}
		acceptedAt := s.now().UTC()
		c := contract.Contract{
			ID:         contractID,
			DynastyID:  dynastyID,
			PlayerID:   t.PlayerID,
			TeamID:     t.TeamID,
			Kind:       contract.KindVeteran,
			StartYear:  t.Season,
			EndYear:    t.Season,
			Years:      1,
			TotalValue: t.Amount,
			Active:     true,
			SignedAt:   acceptedAt,
			YearDetails: []contract.YearDetail{{
				ContractID:    contractID,
				YearIndex:     1,
				SeasonYear:    t.Season,
				BaseSalary:    t.Amount,
				GuaranteeType: contract.GuaranteeNone,
				CashPaid:      t.Amount,
			}},
		}
		if err := tx.InsertContract(ctx, c); err != nil {
			return fmt.Errorf("insert tender contract: %w", err)
		}

		t.Status = tag.TenderAccepted
		t.ContractID = contractID
		if err := tx.UpdateTender(ctx, t); err != nil {
			return fmt.Errorf("update tender: %w", err)
		}

		if _, err := recomputeTeamCapState(ctx, tx, dynastyID, t.TeamID, t.Season); err != nil {
			return err
		}

		entryID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate log entry id: %w", err)
		}
		entry := txlog.Entry{
			ID:          entryID,
			DynastyID:   dynastyID,
			TeamID:      t.TeamID,
			PlayerID:    t.PlayerID,
			ContractID:  contractID,
			Type:        txlog.TypeTender,
			Season:      t.Season,
			Date:        acceptedAt,
			CapImpact:   t.Amount,
			CashImpact:  t.Amount,
			Description: fmt.Sprintf("%s tender accepted at %s", t.Level, t.Amount),
		}
		if err := tx.AppendTransactionLog(ctx, entry); err != nil {
			return fmt.Errorf("append transaction log: %w", err)
		}

		result = TenderResult{Tender: t, LogEntry: entry, Amount: t.Amount}
		return nil
	})
	if err != nil {
		return TenderResult{}, err
	}

	return result, nil
}

func compensationRound(level tag.TenderLevel) int {
	switch level {
	case tag.TenderFirstRound:
		return 1
	case tag.TenderSecondRound:
		return 2
	case tag.TenderOriginalRound:
		return 4
	default:
		return 0
	}
}
