package pricing

import (
	"context"
	"sync"
	"time"
)

// rateGate enforces a minimum spacing between outbound lookups. The mutex is
// held across the sleep so concurrent callers serialize on one shared
// last-call time instead of queueing.
type rateGate struct {
	mu   sync.Mutex
	min  time.Duration
	last time.Time
}

func newRateGate(min time.Duration) *rateGate {
	return &rateGate{min: min}
}

func (g *rateGate) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delay := g.min - time.Since(g.last)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	g.last = time.Now()
	return nil
}
