package memory

import (
	"github.com/gridironsim/capengine/internal/domain/contract"
	"github.com/gridironsim/capengine/internal/domain/leaguedata"
	"github.com/gridironsim/capengine/internal/platform/money"
)

// Seed is the starting dataset for a development ledger. Tests build their
// own smaller seeds.
type Seed struct {
	Teams      map[string][]string
	CapLimits  []leaguedata.SalaryCap
	Positional []leaguedata.PositionalCapHit
	Contracts  []contract.Contract
}

const DynastyIDDefault = "dyn-0001"

// DefaultSeed covers one dynasty with a four-team division, league cap
// limits through 2028, and enough positional snapshot rows to price
// franchise and transition tags at quarterback and wide receiver.
func DefaultSeed() Seed {
	return Seed{
		Teams: map[string][]string{
			DynastyIDDefault: {"dal", "nyg", "phi", "was"},
		},
		CapLimits: []leaguedata.SalaryCap{
			{Season: 2024, Limit: money.FromDollars(255_400_000)},
			{Season: 2025, Limit: money.FromDollars(279_200_000)},
			{Season: 2026, Limit: money.FromDollars(295_000_000)},
			{Season: 2027, Limit: money.FromDollars(312_000_000)},
			{Season: 2028, Limit: money.FromDollars(330_000_000)},
		},
		Positional: seedPositional(),
	}
}

func seedPositional() []leaguedata.PositionalCapHit {
	rows := []struct {
		position string
		playerID string
		capHit   int64
		salary   int64
	}{
		{"QB", "qb-01", 55_000_000, 60_000_000},
		{"QB", "qb-02", 51_000_000, 53_000_000},
		{"QB", "qb-03", 49_500_000, 50_000_000},
		{"QB", "qb-04", 47_000_000, 48_500_000},
		{"QB", "qb-05", 45_000_000, 47_000_000},
		{"QB", "qb-06", 43_000_000, 44_000_000},
		{"QB", "qb-07", 41_000_000, 42_500_000},
		{"QB", "qb-08", 40_000_000, 41_000_000},
		{"QB", "qb-09", 38_500_000, 40_000_000},
		{"QB", "qb-10", 37_000_000, 38_000_000},
		{"WR", "wr-01", 35_000_000, 36_000_000},
		{"WR", "wr-02", 32_000_000, 33_500_000},
		{"WR", "wr-03", 30_000_000, 31_000_000},
		{"WR", "wr-04", 28_500_000, 29_000_000},
		{"WR", "wr-05", 27_000_000, 28_000_000},
		{"WR", "wr-06", 25_500_000, 26_000_000},
		{"WR", "wr-07", 24_000_000, 25_000_000},
		{"WR", "wr-08", 23_000_000, 23_500_000},
		{"WR", "wr-09", 22_000_000, 22_500_000},
		{"WR", "wr-10", 21_000_000, 21_500_000},
		{"EDGE", "edge-01", 34_000_000, 35_000_000},
		{"EDGE", "edge-02", 31_000_000, 32_000_000},
		{"EDGE", "edge-03", 29_000_000, 30_000_000},
		{"EDGE", "edge-04", 27_500_000, 28_000_000},
		{"EDGE", "edge-05", 26_000_000, 27_000_000},
		{"EDGE", "edge-06", 24_500_000, 25_000_000},
		{"EDGE", "edge-07", 23_000_000, 24_000_000},
		{"EDGE", "edge-08", 22_000_000, 22_500_000},
		{"EDGE", "edge-09", 21_000_000, 21_500_000},
		{"EDGE", "edge-10", 20_000_000, 20_500_000},
	}

	var out []leaguedata.PositionalCapHit
	for _, season := range []int{2024, 2025, 2026} {
		for _, row := range rows {
			out = append(out, leaguedata.PositionalCapHit{
				DynastyID: DynastyIDDefault,
				Season:    season,
				Position:  row.position,
				PlayerID:  row.playerID,
				CapHit:    money.FromDollars(row.capHit),
				Salary:    money.FromDollars(row.salary),
			})
		}
	}
	return out
}
