package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var t0 = time.Date(2025, 11, 23, 10, 0, 0, 0, time.UTC)

func TestGetCachesUntilTTL(t *testing.T) {
	c := New[int](time.Minute)
	calls := 0
	load := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for _, now := range []time.Time{t0, t0.Add(30 * time.Second), t0.Add(59 * time.Second)} {
		v, err := c.Get(context.Background(), "k", now, load)
		if err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
		if v != 42 {
			t.Fatalf("expected 42 got %d", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 load within TTL, got %d", calls)
	}

	if _, err := c.Get(context.Background(), "k", t0.Add(time.Minute), load); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload at expiry, got %d loads", calls)
	}
}

func TestGetKeysAreIndependent(t *testing.T) {
	c := New[string](time.Minute)
	loadFor := func(v string) func(ctx context.Context) (string, error) {
		return func(ctx context.Context) (string, error) { return v, nil }
	}

	a, _ := c.Get(context.Background(), "a", t0, loadFor("alpha"))
	b, _ := c.Get(context.Background(), "b", t0, loadFor("beta"))
	if a != "alpha" || b != "beta" {
		t.Fatalf("got %q and %q", a, b)
	}
}

func TestGetErrorIsNotCached(t *testing.T) {
	c := New[int](time.Minute)
	fail := true
	calls := 0
	load := func(ctx context.Context) (int, error) {
		calls++
		if fail {
			return 0, errors.New("boom")
		}
		return 7, nil
	}

	if _, err := c.Get(context.Background(), "k", t0, load); err == nil {
		t.Fatal("expected load error to surface")
	}

	fail = false
	v, err := c.Get(context.Background(), "k", t0, load)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v != 7 || calls != 2 {
		t.Fatalf("expected retried load, got v=%d calls=%d", v, calls)
	}
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	c := New[int](time.Minute)
	var loads int64
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		atomic.AddInt64(&loads, 1)
		close(started)
		<-release
		return 9, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", t0, load)
			if err != nil {
				t.Errorf("Get returned error: %v", err)
				return
			}
			results[i] = v
		}()
	}

	<-started
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&loads); got != 1 {
		t.Fatalf("expected exactly 1 in-flight load for concurrent misses, got %d", got)
	}
	for i, v := range results {
		if v != 9 {
			t.Fatalf("caller %d got %d, want shared result 9", i, v)
		}
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	c := New[int](time.Minute)
	calls := 0
	load := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	c.Get(context.Background(), "k", t0, load)
	c.Invalidate("k")
	v, err := c.Get(context.Background(), "k", t0, load)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v != 2 || calls != 2 {
		t.Fatalf("expected reload after invalidate, got v=%d calls=%d", v, calls)
	}
}
