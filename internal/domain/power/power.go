package power

import "github.com/oshokin/vent-panel/internal/domain/tick"

// State is the ventilation power state.
type State uint8

const (
	// Off is standby: the display shows the power-off indicator only.
	Off State = iota
	// Powering is the boot animation before ventilation starts.
	Powering
	// On is normal ventilation.
	On
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Powering:
		return "powering"
	case On:
		return "on"
	default:
		return "unknown"
	}
}

// Sequencer advances the power state once per cycle.
type Sequencer struct {
	// powering counts cycles spent in Powering.
	powering uint32
	// cycles counts running cycles; it restarts at 1 in standby.
	cycles uint32
}

// NewSequencer returns a sequencer in its standby condition.
func NewSequencer() *Sequencer {
	return &Sequencer{cycles: 1}
}

// Advance returns the state for the next cycle.
func (s *Sequencer) Advance(state State) State {
	switch state {
	case Off:
		s.powering = 0
		s.cycles = 1

		return Off
	case Powering:
		s.cycles++

		if s.powering < tick.PoweringOnTime {
			s.powering++

			return Powering
		}

		s.powering = 0

		return On
	default:
		s.cycles++

		return On
	}
}

// MinuteDue reports whether the running cycle counter sits on a minute boundary.
func (s *Sequencer) MinuteDue() bool {
	return s.cycles%tick.PerMinute == 0
}

// PoweringProgress returns how many boot cycles have elapsed.
func (s *Sequencer) PoweringProgress() uint32 {
	return s.powering
}
