package watchdog

import (
	"context"
	"errors"
	"time"
)

// ErrDeadlineElapsed is returned by Wait once the fail-safe deadline has passed.
var ErrDeadlineElapsed = errors.New("fail-safe deadline elapsed")

// Ticker paces the control cycle from a time.Ticker.
type Ticker struct {
	// ticker produces the cycle edges.
	ticker *time.Ticker
	// failSafe is the tolerated time between deadline resets; zero disables it.
	failSafe time.Duration
	// lastReset is when the deadline was last re-armed.
	lastReset time.Time
	// level is the outgoing watchdog line.
	level bool
	// strokes counts outgoing toggles.
	strokes uint64
}

// New starts a ticker with the given cycle period. The fail-safe deadline is
// armed immediately.
func New(period, failSafe time.Duration) *Ticker {
	return &Ticker{
		ticker:    time.NewTicker(period),
		failSafe:  failSafe,
		lastReset: time.Now(),
	}
}

// Wait blocks until the next cycle edge. After the edge it reports
// ErrDeadlineElapsed if the fail-safe deadline has run out.
func (t *Ticker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ticker.C:
	}

	if t.failSafe > 0 && time.Since(t.lastReset) > t.failSafe {
		return ErrDeadlineElapsed
	}

	return nil
}

// Stroke toggles the outgoing watchdog line.
func (t *Ticker) Stroke() {
	t.level = !t.level
	t.strokes++
}

// ResetDeadline re-arms the fail-safe deadline.
func (t *Ticker) ResetDeadline() {
	t.lastReset = time.Now()
}

// Strokes returns how many times the line was toggled.
func (t *Ticker) Strokes() uint64 {
	return t.strokes
}

// Stop releases the ticker.
func (t *Ticker) Stop() {
	t.ticker.Stop()
}
