package video

import (
	"context"
	"time"
)

// Pacer gates frame production to a fixed frame rate. Waiting on Next is
// the single suspension point in the production loop: frames are never
// rendered faster than the configured rate and never buffered ahead.
type Pacer struct {
	interval time.Duration
	ticker   *time.Ticker
}

// NewPacer creates a pacer ticking at the given frames per second.
func NewPacer(fps int) *Pacer {
	interval := time.Second / time.Duration(fps)
	return &Pacer{
		interval: interval,
		ticker:   time.NewTicker(interval),
	}
}

// Next blocks until the next frame slot and returns the frame duration to
// stamp on the produced sample. It returns ctx.Err() once ctx is cancelled.
func (p *Pacer) Next(ctx context.Context) (time.Duration, error) {
	select {
	case <-p.ticker.C:
		return p.interval, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Stop releases the underlying ticker.
func (p *Pacer) Stop() {
	p.ticker.Stop()
}
