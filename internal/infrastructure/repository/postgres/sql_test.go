package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/gridironsim/capengine/internal/platform/money"
)

func TestIsNotFound(t *testing.T) {
	t.Run("matches sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("matches wrapped sql.ErrNoRows", func(t *testing.T) {
		if !isNotFound(fmt.Errorf("load contract: %w", sql.ErrNoRows)) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNotFound(fmt.Errorf("pq: relation contracts does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestFutureImpactsRoundTrip(t *testing.T) {
	t.Run("empty map stores empty object", func(t *testing.T) {
		raw, err := marshalFutureImpacts(nil)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(raw) != "{}" {
			t.Fatalf("unexpected payload: %s", raw)
		}

		impacts, err := unmarshalFutureImpacts(raw)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if impacts != nil {
			t.Fatalf("expected nil impacts for empty object, got %v", impacts)
		}
	})

	t.Run("seasons survive the string keyed encoding", func(t *testing.T) {
		in := map[int]money.Cents{
			2026: money.FromDollars(4_000_000),
			2027: money.FromDollars(2_500_000),
		}
		raw, err := marshalFutureImpacts(in)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		out, err := unmarshalFutureImpacts(raw)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(out) != len(in) {
			t.Fatalf("unexpected impact count: %d", len(out))
		}
		for season, amount := range in {
			if out[season] != amount {
				t.Fatalf("season %d: expected %d, got %d", season, amount, out[season])
			}
		}
	})

	t.Run("rejects non numeric season key", func(t *testing.T) {
		if _, err := unmarshalFutureImpacts([]byte(`{"next": 100}`)); err == nil {
			t.Fatalf("expected error for non numeric season key")
		}
	})
}
