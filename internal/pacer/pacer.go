// Package pacer throttles a host-driven animation loop to a fixed frame
// period. It is cooperative and single-threaded: ticks run synchronously
// inside Frame, so at most one tick is ever in flight by construction.
package pacer

import (
	"context"
	"time"
)

// Pacer tracks the timestamp of the last committed tick and decides, for
// each host animation callback, whether a new tick is due.
type Pacer struct {
	interval time.Duration
	last     time.Time
	started  bool
}

// New creates a pacer with the given frame period. A zero or negative
// interval means every frame ticks.
func New(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{interval: interval}
}

// Interval returns the configured frame period.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Frame reports whether a tick is due at the given instant. When the
// elapsed time since the last committed tick is shorter than the period
// the frame is skipped. Otherwise the reference timestamp advances by a
// whole number of periods (elapsed minus the remainder), so a slow host
// does not accumulate debt.
func (p *Pacer) Frame(now time.Time) bool {
	if !p.started {
		p.started = true
		p.last = now
		return true
	}
	elapsed := now.Sub(p.last)
	if elapsed < p.interval {
		return false
	}
	if p.interval > 0 {
		p.last = p.last.Add(elapsed - elapsed%p.interval)
	} else {
		p.last = now
	}
	return true
}

// Reset forgets the reference timestamp; the next Frame ticks.
func (p *Pacer) Reset() {
	p.started = false
}

// Run drives Frame from a wall-clock ticker until the context is
// canceled or the tick callback returns an error. The poll granularity is
// finer than the frame period so skipped frames stay cheap.
func (p *Pacer) Run(ctx context.Context, tick func(now time.Time) error) error {
	poll := p.interval / 4
	if poll < time.Millisecond {
		poll = time.Millisecond
	}
	t := time.NewTicker(poll)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if !p.Frame(now) {
				continue
			}
			if err := tick(now); err != nil {
				return err
			}
		}
	}
}
