package alarm

import "github.com/oshokin/vent-panel/internal/domain/tick"

// Status is the state of a single alarm.
type Status uint8

const (
	// Off means the condition is not present.
	Off Status = iota
	// Set means the condition has lasted past its trip time.
	Set
	// Latch means the alarm needs an explicit clear.
	Latch
	// BlinkOn is the lit phase of an interlock alarm.
	BlinkOn
	// BlinkOff is the dark phase of an interlock alarm.
	BlinkOff
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Off:
		return "off"
	case Set:
		return "set"
	case Latch:
		return "latch"
	case BlinkOn:
		return "blink_on"
	case BlinkOff:
		return "blink_off"
	default:
		return "unknown"
	}
}

// Lit reports whether the alarm indicator should be illuminated.
func (s Status) Lit() bool {
	return s != Off && s != BlinkOff
}

// Alarm is the trip/latch state machine of one monitored condition.
type Alarm struct {
	// Status is the current state.
	Status Status
	// Count accumulates consecutive tripped cycles.
	Count uint32
	// TripTime is the cycle count at which the alarm sets.
	TripTime uint32
	// LatchTime is the cycle count at which the alarm latches.
	LatchTime uint32
}

// RunState advances the alarm by one cycle and reports whether it wants the
// alarm tone. blink is the shared blink counter.
func (a *Alarm) RunState(tripped bool, blink uint32) bool {
	switch {
	case a.Status == BlinkOn || a.Status == BlinkOff:
		if blink < tick.BlinkOff {
			a.Status = BlinkOn
		} else {
			a.Status = BlinkOff
		}

		return true
	case !tripped && a.Status == Latch:
		return true
	case !tripped:
		a.Count = 0
		a.Status = Off

		return false
	}

	a.Count++

	switch {
	case a.Count >= a.LatchTime || a.Status == Latch:
		a.Status = Latch
	case a.Count >= a.TripTime:
		a.Status = Set
	}

	return a.Status != Off
}

// Reset forces the alarm off.
func (a *Alarm) Reset() {
	a.Status = Off
	a.Count = 0
}
