// Package feed provides location feeds: sources of player location updates
// that drive the engine the way a device's geolocation would.
package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/geocoin/internal/grid"
)

// Handler receives location updates. Calls are strictly serial.
type Handler func(grid.LatLng)

// Feed is a source of location updates.
type Feed interface {
	// Subscribe starts delivering updates to h until the subscription is
	// cancelled, ctx is done or the feed runs out of points.
	Subscribe(ctx context.Context, h Handler) *Subscription
}

// Subscription is a running feed.
type Subscription struct {
	cancel  context.CancelFunc
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// Unsubscribe stops further deliveries. Safe to call more than once and from
// inside the handler. It does not wait for the feed goroutine; use Wait.
// Called from another goroutine, it cannot interrupt a delivery that has
// already started, so at most one call of the handler may still be in flight
// when it returns. Wait guarantees there is none.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.stopped.Store(true)
		s.cancel()
	})
}

// Done is closed once the feed goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the feed goroutine has exited.
func (s *Subscription) Wait() {
	<-s.done
}

// Source yields the n-th point of a feed. ok is false when the feed is
// exhausted.
type Source func(n int) (loc grid.LatLng, ok bool)

// Run delivers the points of src to h from a single goroutine: the first one
// right away, then one per interval.
func Run(ctx context.Context, interval time.Duration, src Source, h Handler) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		defer close(sub.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for n := 0; ; n++ {
			loc, ok := src(n)
			if !ok {
				return
			}
			// src may block or take a while; a stop that arrived
			// meanwhile drops the point.
			if sub.stopped.Load() || ctx.Err() != nil {
				return
			}
			h(loc)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return sub
}
