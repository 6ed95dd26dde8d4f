package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/leaguedata"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/platform/money"
)

func testContract(id, teamID string) contract.Contract {
	return contract.Contract{
		ID:         id,
		DynastyID:  DynastyIDDefault,
		PlayerID:   "player-" + id,
		TeamID:     teamID,
		Kind:       contract.KindVeteran,
		StartYear:  2025,
		EndYear:    2025,
		Years:      1,
		TotalValue: money.FromDollars(5_000_000),
		Active:     true,
		YearDetails: []contract.YearDetail{{
			ContractID: id,
			YearIndex:  1,
			SeasonYear: 2025,
			BaseSalary: money.FromDollars(5_000_000),
			CashPaid:   money.FromDollars(5_000_000),
		}},
	}
}

func TestLedger_InTx_CommitsAtomically(t *testing.T) {
	l := NewLedger(DefaultSeed())
	ctx := context.Background()

	err := l.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		return s.InsertContract(ctx, testContract("c-1", "dal"))
	})
	require.NoError(t, err)

	_, found, err := l.GetContract(ctx, DynastyIDDefault, "c-1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestLedger_InTx_RollsBackOnError(t *testing.T) {
	l := NewLedger(DefaultSeed())
	ctx := context.Background()
	boom := errors.New("boom")

	err := l.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		if err := s.InsertContract(ctx, testContract("c-1", "dal")); err != nil {
			return err
		}
		// the write is visible inside the transaction
		_, found, err := s.GetContract(ctx, DynastyIDDefault, "c-1")
		require.NoError(t, err)
		require.True(t, found)
		return boom
	})
	require.ErrorIs(t, err, boom)

	// and gone after the rollback
	_, found, err := l.GetContract(ctx, DynastyIDDefault, "c-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestLedger_InTx_NestedRunsInSameTransaction(t *testing.T) {
	l := NewLedger(DefaultSeed())
	ctx := context.Background()

	err := l.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		return s.InTx(ctx, func(ctx context.Context, inner ledger.Store) error {
			return inner.InsertContract(ctx, testContract("c-1", "dal"))
		})
	})
	require.NoError(t, err)

	_, found, err := l.GetContract(ctx, DynastyIDDefault, "c-1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestLedger_GetContract_ReturnsACopy(t *testing.T) {
	l := NewLedger(DefaultSeed())
	ctx := context.Background()
	require.NoError(t, l.InsertContract(ctx, testContract("c-1", "dal")))

	got, found, err := l.GetContract(ctx, DynastyIDDefault, "c-1")
	require.NoError(t, err)
	require.True(t, found)

	// mutating the returned value must not write through to the store
	got.YearDetails[0].BaseSalary = 0
	got.Active = false

	again, _, err := l.GetContract(ctx, DynastyIDDefault, "c-1")
	require.NoError(t, err)
	require.True(t, again.Active)
	require.Equal(t, money.FromDollars(5_000_000), again.YearDetails[0].BaseSalary)
}

func TestLedger_ListTeamContracts_FiltersByTeamSeasonAndActivity(t *testing.T) {
	l := NewLedger(DefaultSeed())
	ctx := context.Background()

	require.NoError(t, l.InsertContract(ctx, testContract("c-1", "dal")))
	require.NoError(t, l.InsertContract(ctx, testContract("c-2", "nyg")))

	released := testContract("c-3", "dal")
	released.Active = false
	require.NoError(t, l.InsertContract(ctx, released))

	active, err := l.ListTeamContracts(ctx, DynastyIDDefault, "dal", 2025, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "c-1", active[0].ID)

	all, err := l.ListTeamContracts(ctx, DynastyIDDefault, "dal", 2025, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	otherSeason, err := l.ListTeamContracts(ctx, DynastyIDDefault, "dal", 2027, true)
	require.NoError(t, err)
	require.Empty(t, otherSeason)
}

func TestLedger_DynastyIsolation(t *testing.T) {
	seed := DefaultSeed()
	seed.Teams["dyn-0002"] = []string{"dal"}
	l := NewLedger(seed)
	ctx := context.Background()

	c := testContract("c-1", "dal")
	require.NoError(t, l.InsertContract(ctx, c))

	other := testContract("c-1", "dal")
	other.DynastyID = "dyn-0002"
	require.NoError(t, l.InsertContract(ctx, other), "same contract id in another dynasty must not collide")

	list, err := l.ListTeamContracts(ctx, "dyn-0002", "dal", 2025, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestLedger_TopPositionalCapHits_SortedAndLimited(t *testing.T) {
	l := NewLedger(Seed{
		CapLimits: []leaguedata.SalaryCap{{Season: 2025, Limit: money.FromDollars(300_000_000)}},
		Positional: []leaguedata.PositionalCapHit{
			{DynastyID: DynastyIDDefault, Season: 2025, Position: "QB", PlayerID: "a", CapHit: money.FromDollars(30_000_000)},
			{DynastyID: DynastyIDDefault, Season: 2025, Position: "QB", PlayerID: "b", CapHit: money.FromDollars(50_000_000)},
			{DynastyID: DynastyIDDefault, Season: 2025, Position: "QB", PlayerID: "c", CapHit: money.FromDollars(40_000_000)},
			{DynastyID: DynastyIDDefault, Season: 2024, Position: "QB", PlayerID: "d", CapHit: money.FromDollars(99_000_000)},
		},
	})

	hits, err := l.TopPositionalCapHits(context.Background(), DynastyIDDefault, "QB", 2025, 2)
	require.NoError(t, err)
	require.Equal(t, []money.Cents{money.FromDollars(50_000_000), money.FromDollars(40_000_000)}, hits)
}
