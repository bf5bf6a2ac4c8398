package panelio

import (
	"errors"
	"fmt"

	"github.com/oshokin/vent-panel/internal/domain/button"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// Samples is the number of raw reads that must agree for one debounced sample.
const Samples = 3

// ErrStuckButton is returned when a button stays pressed past tick.ButtonStuck cycles.
var ErrStuckButton = errors.New("button held past the stuck limit")

// Source is a raw, undebounced button reader.
type Source interface {
	Read() (button.Positions, error)
}

// Framer is implemented by sources that need to know when a new cycle begins.
type Framer interface {
	NextFrame()
}

// Debouncer turns raw reads into one consistent sample per cycle.
type Debouncer struct {
	src Source

	// held counts consecutive cycles each button has been down.
	primaryHeld [button.NumPrimary]uint32
	adjustHeld  [button.NumAdjust]uint32
}

// NewDebouncer wraps src.
func NewDebouncer(src Source) *Debouncer {
	return &Debouncer{src: src}
}

// ReadButtons takes Samples raw reads. It reports ok=false when they
// disagree or a read fails, so the caller skips button handling for this
// cycle. A non-nil error means a button is stuck.
func (d *Debouncer) ReadButtons() (button.Positions, bool, error) {
	if f, ok := d.src.(Framer); ok {
		f.NextFrame()
	}

	first, err := d.src.Read()
	if err != nil {
		return button.Positions{}, false, nil //nolint:nilerr // A failed read is a transient inconsistency.
	}

	for range Samples - 1 {
		next, err := d.src.Read()
		if err != nil || !next.Equal(first) {
			return button.Positions{}, false, nil //nolint:nilerr // Same as above.
		}
	}

	for i, pressed := range first.Primary {
		if d.primaryHeld[i] = held(d.primaryHeld[i], pressed); d.primaryHeld[i] >= tick.ButtonStuck {
			return first, false, fmt.Errorf("%s: %w", button.ID(i), ErrStuckButton)
		}
	}

	for i, pressed := range first.Adjust {
		if d.adjustHeld[i] = held(d.adjustHeld[i], pressed); d.adjustHeld[i] >= tick.ButtonStuck {
			return first, false, fmt.Errorf("%s: %w", button.AdjustID(i), ErrStuckButton)
		}
	}

	return first, true, nil
}

func held(count uint32, pressed bool) uint32 {
	if !pressed {
		return 0
	}

	return count + 1
}
