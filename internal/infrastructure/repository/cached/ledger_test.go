package cached

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridironsim/capengine/internal/domain/capstate"
	"github.com/gridironsim/capengine/internal/domain/ledger"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/memory"
	"github.com/gridironsim/capengine/internal/platform/cache"
	"github.com/gridironsim/capengine/internal/platform/money"
)

func testCapState(dynastyID, teamID string, committed money.Cents) capstate.TeamCapState {
	return capstate.TeamCapState{
		DynastyID:      dynastyID,
		TeamID:         teamID,
		Season:         2025,
		CapLimit:       money.FromDollars(279_200_000),
		CommittedTotal: committed,
		RosterMode:     capstate.ModeTop51,
	}
}

func TestCachedLedgerServesStaleReadsUntilFlush(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewLedger(memory.DefaultSeed())
	cached := NewLedger(inner, cache.NewStore(time.Minute))

	require.NoError(t, inner.UpsertTeamCapState(ctx, testCapState(memory.DynastyIDDefault, "dal", money.FromDollars(100_000_000))))

	state, ok, err := cached.GetTeamCapState(ctx, memory.DynastyIDDefault, "dal", 2025)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.FromDollars(100_000_000), state.CommittedTotal)

	// A write that bypasses the cached ledger does not invalidate anything.
	require.NoError(t, inner.UpsertTeamCapState(ctx, testCapState(memory.DynastyIDDefault, "dal", money.FromDollars(120_000_000))))

	state, ok, err = cached.GetTeamCapState(ctx, memory.DynastyIDDefault, "dal", 2025)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.FromDollars(100_000_000), state.CommittedTotal)
}

func TestCachedLedgerFlushesDynastyOnCommit(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewLedger(memory.DefaultSeed())
	cached := NewLedger(inner, cache.NewStore(time.Minute))

	require.NoError(t, inner.UpsertTeamCapState(ctx, testCapState(memory.DynastyIDDefault, "dal", money.FromDollars(100_000_000))))

	_, ok, err := cached.GetTeamCapState(ctx, memory.DynastyIDDefault, "dal", 2025)
	require.NoError(t, err)
	require.True(t, ok)

	err = cached.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		return s.UpsertTeamCapState(ctx, testCapState(memory.DynastyIDDefault, "dal", money.FromDollars(150_000_000)))
	})
	require.NoError(t, err)

	state, ok, err := cached.GetTeamCapState(ctx, memory.DynastyIDDefault, "dal", 2025)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.FromDollars(150_000_000), state.CommittedTotal)
}

func TestCachedLedgerFlushIsScopedToWrittenDynasty(t *testing.T) {
	ctx := context.Background()
	seed := memory.DefaultSeed()
	seed.Teams["dyn-0002"] = []string{"kc"}
	inner := memory.NewLedger(seed)
	cached := NewLedger(inner, cache.NewStore(time.Minute))

	require.NoError(t, inner.UpsertTeamCapState(ctx, testCapState("dyn-0002", "kc", money.FromDollars(90_000_000))))

	// Prime the cache for the second dynasty.
	_, ok, err := cached.GetTeamCapState(ctx, "dyn-0002", "kc", 2025)
	require.NoError(t, err)
	require.True(t, ok)

	err = cached.InTx(ctx, func(ctx context.Context, s ledger.Store) error {
		return s.UpsertTeamCapState(ctx, testCapState(memory.DynastyIDDefault, "dal", money.FromDollars(110_000_000)))
	})
	require.NoError(t, err)

	// The dyn-0002 entry survived the dyn-0001 commit.
	require.NoError(t, inner.UpsertTeamCapState(ctx, testCapState("dyn-0002", "kc", money.FromDollars(95_000_000))))
	state, ok, err := cached.GetTeamCapState(ctx, "dyn-0002", "kc", 2025)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.FromDollars(90_000_000), state.CommittedTotal)
}

func TestCachedLedgerLeagueCapLimit(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewLedger(memory.DefaultSeed())
	cached := NewLedger(inner, cache.NewStore(time.Minute))

	limit, ok, err := cached.LeagueCapLimit(ctx, 2026)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, money.FromDollars(295_000_000), limit)

	_, ok, err = cached.LeagueCapLimit(ctx, 2099)
	require.NoError(t, err)
	require.False(t, ok)
}
