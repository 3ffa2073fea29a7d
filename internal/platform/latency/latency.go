// Package latency simulates the processing time of the mock AI endpoints.
package latency

import (
	"context"
	"time"
)

// Simulator waits a fixed duration before a mock result is released.
type Simulator struct {
	d time.Duration
}

func New(d time.Duration) Simulator {
	return Simulator{d: d}
}

// Wait blocks for the configured delay. It returns ctx.Err() if the caller
// goes away first, in which case the result must be discarded.
func (s Simulator) Wait(ctx context.Context) error {
	if s.d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
