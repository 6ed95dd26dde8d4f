package leaguedata

import (
	"fmt"

	"github.com/gridironsim/capengine/internal/platform/money"
)

// SalaryCap is the league-wide cap limit for one season.
type SalaryCap struct {
	Season int
	Limit  money.Cents
}

// PositionalCapHit is one row of the positional salary snapshot that tag
// and tender valuation reads. Snapshots are written per dynasty and season
// so a tag computed in 2027 cannot see 2028 money.
type PositionalCapHit struct {
	DynastyID string
	Season    int
	Position  string
	PlayerID  string
	CapHit    money.Cents
	Salary    money.Cents
}

// SnapshotTiming picks which season's snapshot the tag formulas read. The
// league documentation is inconsistent on this, so it is configuration, not
// a hardcoded rule.
type SnapshotTiming string

const (
	TimingPriorSeason SnapshotTiming = "prior_season"
	TimingAtSigning   SnapshotTiming = "at_signing"
)

func ParseSnapshotTiming(raw string) (SnapshotTiming, error) {
	switch SnapshotTiming(raw) {
	case TimingPriorSeason, TimingAtSigning:
		return SnapshotTiming(raw), nil
	default:
		return "", fmt.Errorf("unknown tag snapshot timing %q", raw)
	}
}

// SnapshotSeason resolves the season whose rows feed a tag computed for
// tagSeason under the given timing rule.
func (t SnapshotTiming) SnapshotSeason(tagSeason int) int {
	if t == TimingAtSigning {
		return tagSeason
	}
	return tagSeason - 1
}
