package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/dquaid/leetfriends/internal/store"
)

func TestObserveReportsMinimumExpiry(t *testing.T) {
	c, _, _ := fakeClock(t)

	c.Set("submissions_alice_30", "a", 10*time.Minute)
	c.Set("submissions_bob_30", "b", 3*time.Minute)
	c.Set("user_stats_alice", "c", time.Hour)

	cd := NewCountdown(c, []string{
		"submissions_alice_30",
		"submissions_bob_30",
		"user_stats_alice",
		"submissions_carol_30", // absent; must be ignored
	}, nil)

	tick := cd.Observe()
	if tick.State != StateCounting {
		t.Fatalf("State = %v, want StateCounting", tick.State)
	}
	if tick.Remaining != 3*time.Minute {
		t.Errorf("Remaining = %v, want 3m", tick.Remaining)
	}
}

func TestObserveNoCache(t *testing.T) {
	c, _, _ := fakeClock(t)

	cd := NewCountdown(c, []string{"submissions_alice_30"}, nil)
	tick := cd.Observe()
	if tick.State != StateNoCache {
		t.Errorf("State = %v, want StateNoCache", tick.State)
	}
}

func TestObserveAfterExpiry(t *testing.T) {
	c, _, now := fakeClock(t)

	c.Set("k", "v", time.Minute)
	*now = now.Add(2 * time.Minute)

	// Metadata reports expired entries as absent, so an all-expired key
	// set reads as "no active cache" rather than "updating".
	cd := NewCountdown(c, []string{"k"}, nil)
	if tick := cd.Observe(); tick.State != StateNoCache {
		t.Errorf("State = %v, want StateNoCache", tick.State)
	}
}

func TestCountdownRendersAndStops(t *testing.T) {
	c, _, _ := fakeClock(t)
	c.Set("k", "v", time.Minute)

	var mu sync.Mutex
	ticks := make([]Tick, 0)

	cd := NewCountdownWithInterval(c, []string{"k"}, 5*time.Millisecond, func(tick Tick) {
		mu.Lock()
		ticks = append(ticks, tick)
		mu.Unlock()
	})

	cd.Start()
	time.Sleep(30 * time.Millisecond)
	cd.Stop()

	mu.Lock()
	count := len(ticks)
	first := Tick{}
	if count > 0 {
		first = ticks[0]
	}
	mu.Unlock()

	if count < 2 {
		t.Fatalf("expected at least 2 renders, got %d", count)
	}
	if first.State != StateCounting || first.Remaining != time.Minute {
		t.Errorf("first tick = %+v, want counting with 1m remaining", first)
	}

	// No renders after Stop.
	mu.Lock()
	after := len(ticks)
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	final := len(ticks)
	mu.Unlock()
	if final != after {
		t.Errorf("renders continued after Stop: %d -> %d", after, final)
	}

	// Stop is idempotent.
	cd.Stop()
}

func TestCountdownSurvivesStoreOutage(t *testing.T) {
	st := store.NewMemoryStore()
	c := New(st, false)
	c.Set("k", "v", time.Minute)

	st.Fail = true

	cd := NewCountdown(c, []string{"k"}, nil)
	if tick := cd.Observe(); tick.State != StateNoCache {
		t.Errorf("State during outage = %v, want StateNoCache", tick.State)
	}
}
