package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "dyn-1|capstate|ne|2025", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "league|caplimit|2025", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "league|caplimit|2025", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_DeletePrefix_RemovesOnlyMatchingKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "dyn-1|capstate|ne|2025", "a")
	store.Set(ctx, "dyn-1|contracts|ne|2025|true", "b")
	store.Set(ctx, "dyn-2|capstate|kc|2025", "c")

	store.DeletePrefix(ctx, "dyn-1|")

	if _, ok := store.Get(ctx, "dyn-1|capstate|ne|2025"); ok {
		t.Fatalf("expected dyn-1 cap state evicted")
	}
	if _, ok := store.Get(ctx, "dyn-1|contracts|ne|2025|true"); ok {
		t.Fatalf("expected dyn-1 contracts evicted")
	}
	if v, ok := store.Get(ctx, "dyn-2|capstate|kc|2025"); !ok || v != "c" {
		t.Fatalf("expected dyn-2 entry to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
