package ledger

import (
	"context"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/deadmoney"
	"github.com/gridironsim/capengine/internal/domain/tag"
	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// Store is the durable cap ledger. Every operation is scoped to a dynasty
// id; nothing ever aggregates across dynasties. Implementations live under
// internal/infrastructure/repository.
type Store interface {
	Contracts
	CapStates
	Tags
	DeadMoney
	AuditLog
	LeagueData

	// InTx runs fn against a transactional view of the store. Everything fn
	// writes commits together or not at all. Calling InTx on a store that is
	// already transactional just runs fn in the open transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Contracts covers contract rows and their per-year details. Details travel
// with their parent contract; they are never written independently.
type Contracts interface {
	InsertContract(ctx context.Context, c contract.Contract) error
	UpdateContract(ctx context.Context, c contract.Contract) error
	GetContract(ctx context.Context, dynastyID, contractID string) (contract.Contract, bool, error)
	ListTeamContracts(ctx context.Context, dynastyID, teamID string, season int, activeOnly bool) ([]contract.Contract, error)
}

type CapStates interface {
	UpsertTeamCapState(ctx context.Context, s capstate.TeamCapState) error
	GetTeamCapState(ctx context.Context, dynastyID, teamID string, season int) (capstate.TeamCapState, bool, error)
	ListTeamIDs(ctx context.Context, dynastyID string) ([]string, error)
	// CashSpentByYear sums cash paid out by a team per season, for the
	// spending-floor window.
	CashSpentByYear(ctx context.Context, dynastyID, teamID string, seasons []int) (map[int]money.Cents, error)
}

type Tags interface {
	InsertTag(ctx context.Context, t tag.Tag) error
	ListTeamTags(ctx context.Context, dynastyID, teamID string, season int) ([]tag.Tag, error)
	TagHistory(ctx context.Context, dynastyID, playerID, teamID string) ([]tag.Tag, error)
	InsertTender(ctx context.Context, t tag.Tender) error
	GetTender(ctx context.Context, dynastyID, tenderID string) (tag.Tender, bool, error)
	UpdateTender(ctx context.Context, t tag.Tender) error
}

type DeadMoney interface {
	InsertDeadMoneyRecord(ctx context.Context, r deadmoney.Record) error
	ListDeadMoney(ctx context.Context, dynastyID, teamID string, season int) ([]deadmoney.Record, error)
	// HasReleaseRecord reports whether a contract has already been released.
	// Contracts are single-use financial instruments.
	HasReleaseRecord(ctx context.Context, dynastyID, contractID string) (bool, error)
}

type AuditLog interface {
	AppendTransactionLog(ctx context.Context, e txlog.Entry) error
	ListTransactionLog(ctx context.Context, dynastyID, teamID string, season int) ([]txlog.Entry, error)
}

type LeagueData interface {
	LeagueCapLimit(ctx context.Context, season int) (money.Cents, bool, error)
	// TopPositionalCapHits returns the highest cap hits at a position for a
	// season snapshot, descending, at most limit values.
	TopPositionalCapHits(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error)
	// TopPositionalSalaries is the exclusive-tag data source: current-year
	// salaries rather than cap hits.
	TopPositionalSalaries(ctx context.Context, dynastyID, position string, season, limit int) ([]money.Cents, error)
}
