package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridironsim/capengine/internal/domain/capmath"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// TransactionStatus is the terminal state of one bridged request.
type TransactionStatus string

const (
	StatusRejected  TransactionStatus = "REJECTED"
	StatusPersisted TransactionStatus = "PERSISTED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Request is the closed union of transaction kinds the bridge accepts.
// Adding a kind means adding a type here and a case to both the validator
// and the dispatcher; the compiler flags any switch that misses one.
type Request interface {
	requestKind() string
	Team() (dynastyID, teamID string)
}

type SignContractRequest struct {
	DynastyID    string
	PlayerID     string
	TeamID       string
	Kind         contract.Kind
	StartYear    int
	Years        int
	SigningBonus money.Cents
	YearTerms    []YearTerms
}

type RestructureRequest struct {
	DynastyID  string
	TeamID     string
	ContractID string
	Season     int
	Amount     money.Cents
}

type ReleaseRequest struct {
	DynastyID  string
	TeamID     string
	ContractID string
	Season     int
	Date       time.Time
	June1      bool
}

type ApplyTagRequest struct {
	DynastyID string
	PlayerID  string
	TeamID    string
	Position  string
	Season    int
	Type      tag.Type
	Exclusive bool
}

type RFATenderRequest struct {
	DynastyID      string
	PlayerID       string
	TeamID         string
	Season         int
	Level          tag.TenderLevel
	PreviousSalary money.Cents
}

func (r SignContractRequest) requestKind() string { return "sign_contract" }
func (r RestructureRequest) requestKind() string  { return "restructure" }
func (r ReleaseRequest) requestKind() string      { return "release" }
func (r ApplyTagRequest) requestKind() string     { return "apply_tag" }
func (r RFATenderRequest) requestKind() string    { return "rfa_tender" }

func (r SignContractRequest) Team() (string, string) { return r.DynastyID, r.TeamID }
func (r RestructureRequest) Team() (string, string)  { return r.DynastyID, r.TeamID }
func (r ReleaseRequest) Team() (string, string)      { return r.DynastyID, r.TeamID }
func (r ApplyTagRequest) Team() (string, string)     { return r.DynastyID, r.TeamID }
func (r RFATenderRequest) Team() (string, string)    { return r.DynastyID, r.TeamID }

// TransactionResult is the uniform outcome for every request kind. On
// success it carries the audit entry that was committed with the mutation.
type TransactionResult struct {
	Status           TransactionStatus
	Kind             string
	ContractID       string
	CapSpaceAfter    money.Cents
	DeadMoneyCreated money.Cents
	TagSalary        money.Cents
	TenderAmount     money.Cents
	Reason           string
	LogEntry         *txlog.Entry
}

// FeedPublisher mirrors committed audit entries to an external consumer.
// Publishing is best-effort: a feed failure never fails the transaction.
type FeedPublisher interface {
	PublishEntry(ctx context.Context, entry txlog.Entry) error
}

// BridgeService is the single entry point for externally-triggered cap
// transactions. Each request runs RECEIVED → VALIDATING and either stops at
// REJECTED (no mutation) or proceeds to EXECUTING and ends PERSISTED or
// FAILED (rolled back).
type BridgeService struct {
	contracts  *ContractService
	tags       *TagService
	compliance *ComplianceService
	feed       FeedPublisher
	logger     *logging.Logger
}

func NewBridgeService(
	contracts *ContractService,
	tags *TagService,
	compliance *ComplianceService,
	feed FeedPublisher,
	logger *logging.Logger,
) *BridgeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BridgeService{
		contracts:  contracts,
		tags:       tags,
		compliance: compliance,
		feed:       feed,
		logger:     logger,
	}
}

// Execute runs one transaction request through validation, dispatch and
// persistence. A returned error always travels with a result whose Status
// says which phase failed.
func (s *BridgeService) Execute(ctx context.Context, req Request) (TransactionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BridgeService.Execute")
	defer span.End()

	if err := s.validate(ctx, req); err != nil {
		reason := err.Error()
		if verr, ok := err.(*ValidationError); ok {
			reason = verr.Reason
		}
		s.logger.WarnContext(ctx, "transaction rejected",
			"kind", req.requestKind(),
			"reason", reason,
		)
		return TransactionResult{
			Status: StatusRejected,
			Kind:   req.requestKind(),
			Reason: reason,
		}, err
	}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "transaction failed after validation",
			"kind", req.requestKind(),
			"error", err,
		)
		return TransactionResult{
			Status: StatusFailed,
			Kind:   req.requestKind(),
		}, err
	}

	result.Status = StatusPersisted
	result.Kind = req.requestKind()

	if s.feed != nil && result.LogEntry != nil {
		if err := s.feed.PublishEntry(ctx, *result.LogEntry); err != nil {
			s.logger.WarnContext(ctx, "cap feed publish failed",
				"entry_id", result.LogEntry.ID,
				"error", err,
			)
		}
	}
	return result, nil
}

func (s *BridgeService) dispatch(ctx context.Context, req Request) (TransactionResult, error) {
	switch r := req.(type) {
	case SignContractRequest:
		c, err := s.contracts.CreateContract(ctx, CreateContractInput{
			DynastyID:    r.DynastyID,
			PlayerID:     r.PlayerID,
			TeamID:       r.TeamID,
			Kind:         r.Kind,
			StartYear:    r.StartYear,
			Years:        r.Years,
			SigningBonus: r.SigningBonus,
			YearTerms:    r.YearTerms,
		})
		if err != nil {
			return TransactionResult{}, err
		}
		entry, space, err := s.latestState(ctx, r.DynastyID, r.TeamID, r.StartYear, c.ID)
		if err != nil {
			return TransactionResult{}, err
		}
		return TransactionResult{ContractID: c.ID, CapSpaceAfter: space, LogEntry: entry}, nil

	case RestructureRequest:
		res, err := s.contracts.Restructure(ctx, r.DynastyID, r.ContractID, r.Season, r.Amount)
		if err != nil {
			return TransactionResult{}, err
		}
		_, space, err := s.latestState(ctx, r.DynastyID, r.TeamID, r.Season, "")
		if err != nil {
			return TransactionResult{}, err
		}
		entry := res.LogEntry
		return TransactionResult{ContractID: r.ContractID, CapSpaceAfter: space, LogEntry: &entry}, nil

	case ReleaseRequest:
		res, err := s.contracts.Release(ctx, ReleaseInput{
			DynastyID:  r.DynastyID,
			ContractID: r.ContractID,
			Season:     r.Season,
			Date:       r.Date,
			June1:      r.June1,
		})
		if err != nil {
			return TransactionResult{}, err
		}
		entry := res.LogEntry
		return TransactionResult{
			ContractID:       r.ContractID,
			CapSpaceAfter:    res.CapSpaceAfter,
			DeadMoneyCreated: res.CurrentYearDeadMoney + res.NextYearDeadMoney,
			LogEntry:         &entry,
		}, nil

	case ApplyTagRequest:
		res, err := s.tags.ApplyTag(ctx, ApplyTagInput{
			DynastyID: r.DynastyID,
			PlayerID:  r.PlayerID,
			TeamID:    r.TeamID,
			Position:  r.Position,
			Season:    r.Season,
			Type:      r.Type,
			Exclusive: r.Exclusive,
		})
		if err != nil {
			return TransactionResult{}, err
		}
		_, space, err := s.latestState(ctx, r.DynastyID, r.TeamID, r.Season, "")
		if err != nil {
			return TransactionResult{}, err
		}
		entry := res.LogEntry
		return TransactionResult{
			ContractID:    res.Contract.ID,
			CapSpaceAfter: space,
			TagSalary:     res.Salary,
			LogEntry:      &entry,
		}, nil

	case RFATenderRequest:
		res, err := s.tags.ApplyRFATender(ctx, RFATenderInput{
			DynastyID:      r.DynastyID,
			PlayerID:       r.PlayerID,
			TeamID:         r.TeamID,
			Season:         r.Season,
			Level:          r.Level,
			PreviousSalary: r.PreviousSalary,
		})
		if err != nil {
			return TransactionResult{}, err
		}
		entry := res.LogEntry
		return TransactionResult{TenderAmount: res.Amount, LogEntry: &entry}, nil

	default:
		return TransactionResult{}, fmt.Errorf("%w: unhandled request kind %q", ErrInvalidInput, req.requestKind())
	}
}

func (s *BridgeService) latestState(ctx context.Context, dynastyID, teamID string, season int, _ string) (*txlog.Entry, money.Cents, error) {
	state, found, err := s.contracts.store.GetTeamCapState(ctx, dynastyID, teamID, season)
	if err != nil {
		return nil, 0, fmt.Errorf("get team cap state: %w", err)
	}
	if !found {
		return nil, 0, fmt.Errorf("%w: cap state for team %s season %d", ErrNotFound, teamID, season)
	}

	entries, err := s.contracts.store.ListTransactionLog(ctx, dynastyID, teamID, season)
	if err != nil {
		return nil, 0, fmt.Errorf("list transaction log: %w", err)
	}
	var latest *txlog.Entry
	if len(entries) > 0 {
		e := entries[len(entries)-1]
		latest = &e
	}
	return latest, capmath.CapSpace(state), nil
}
