package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// CountdownState classifies what the countdown has to report.
type CountdownState int

const (
	// StateNoCache means none of the watched keys hold a live entry;
	// data refreshes on the next full load, not proactively.
	StateNoCache CountdownState = iota
	// StateUpdating means the nearest entry has just expired and the
	// consumer is expected to refetch.
	StateUpdating
	// StateCounting means at least one live entry exists and Remaining
	// holds the minimum time until the next invalidation.
	StateCounting
)

// Tick is one countdown observation.
type Tick struct {
	State     CountdownState
	Remaining time.Duration
}

// Countdown polls a set of cache keys' metadata on a fixed cadence and
// reports the minimum time-until-expiry across them. It backs the
// "updates in 4m 10s" display.
//
// Stop must be called when the owning view is torn down; the polling
// goroutine has no lifecycle of its own and would otherwise leak.
type Countdown struct {
	cache    *Cache
	keys     []string
	interval time.Duration
	render   func(Tick)

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCountdown creates a countdown over the given keys, invoking render
// once per second with the current observation.
func NewCountdown(c *Cache, keys []string, render func(Tick)) *Countdown {
	return NewCountdownWithInterval(c, keys, time.Second, render)
}

// NewCountdownWithInterval is NewCountdown with an explicit cadence
// (for testing).
func NewCountdownWithInterval(c *Cache, keys []string, interval time.Duration, render func(Tick)) *Countdown {
	return &Countdown{
		cache:    c,
		keys:     keys,
		interval: interval,
		render:   render,
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. The first observation renders
// immediately.
func (cd *Countdown) Start() {
	cd.wg.Add(1)
	go func() {
		defer cd.wg.Done()

		cd.render(cd.Observe())

		ticker := time.NewTicker(cd.interval)
		defer ticker.Stop()

		for {
			select {
			case <-cd.done:
				return
			case <-ticker.C:
				cd.render(cd.Observe())
			}
		}
	}()
}

// Stop cancels the polling loop and waits for it to exit. Idempotent.
func (cd *Countdown) Stop() {
	cd.stopOnce.Do(func() {
		close(cd.done)
	})
	cd.wg.Wait()
}

// Observe fetches metadata for all keys concurrently, ignores absent
// entries, and reduces to the minimum time until expiry.
func (cd *Countdown) Observe() Tick {
	metas := make([]*Metadata, len(cd.keys))

	var g errgroup.Group
	for i, key := range cd.keys {
		i, key := i, key
		g.Go(func() error {
			if m, ok := cd.cache.Metadata(key); ok {
				metas[i] = m
			}
			return nil
		})
	}
	g.Wait()

	var min *time.Duration
	for _, m := range metas {
		if m == nil {
			continue
		}
		if min == nil || m.TimeUntilExpiry < *min {
			d := m.TimeUntilExpiry
			min = &d
		}
	}

	if min == nil {
		return Tick{State: StateNoCache}
	}
	if *min <= 0 {
		return Tick{State: StateUpdating}
	}
	return Tick{State: StateCounting, Remaining: *min}
}
