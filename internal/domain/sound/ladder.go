package sound

import "github.com/oshokin/vent-panel/internal/domain/tick"

// Kind is a rung of the sound ladder.
type Kind uint8

const (
	// Off is silence.
	Off Kind = iota
	// Beep is a single short tone.
	Beep
	// DelayBeep is the silent gap between the two tones of TwoBeep.
	DelayBeep
	// TwoBeep is tone, gap, tone.
	TwoBeep
	// Constant is the continuous alarm tone. It does not decay.
	Constant
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Off:
		return "off"
	case Beep:
		return "beep"
	case DelayBeep:
		return "delay_beep"
	case TwoBeep:
		return "two_beep"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// NextLower returns the rung a finished kind decays into.
func (k Kind) NextLower() Kind {
	switch k {
	case TwoBeep:
		return DelayBeep
	case DelayBeep:
		return Beep
	default:
		return Off
	}
}

// Tone is the buzzer output.
type Tone interface {
	Enable()
	Disable()
}

// Ladder sequences tones one cycle at a time.
type Ladder struct {
	// tone drives the buzzer.
	tone Tone
	// state is the rung currently playing.
	state Kind
	// current counts cycles spent on the rung.
	current uint32
	// stop is the cycle count at which the rung decays.
	stop uint32
	// toneOn mirrors the last level commanded on tone.
	toneOn bool
}

// NewLadder returns a silent ladder driving tone.
func NewLadder(tone Tone) *Ladder {
	return &Ladder{tone: tone}
}

// Start begins kind if the current rung allows it.
// Off always stops and Constant always preempts. Otherwise the ladder must
// be silent or playing the rung directly above kind; Constant sits directly
// above TwoBeep.
func (l *Ladder) Start(kind Kind) {
	if kind == Off {
		l.Stop()

		return
	}

	allowed := l.state == Off ||
		kind == Constant ||
		(l.state == Constant && kind == TwoBeep) ||
		(l.state != Constant && l.state.NextLower() == kind)
	if !allowed {
		return
	}

	l.current = 0
	l.stop = tick.BeepDuration
	l.state = kind

	if kind == DelayBeep {
		l.setTone(false)

		return
	}

	l.setTone(true)
}

// Stop silences the ladder.
func (l *Ladder) Stop() {
	l.state = Off
	l.current = 0
	l.stop = 0
	l.setTone(false)
}

// Cycle advances the current rung by one cycle.
func (l *Ladder) Cycle() {
	if l.state == Off || l.state == Constant {
		return
	}

	l.current++
	if l.current >= l.stop {
		l.Start(l.state.NextLower())
	}
}

// IsAlarming reports whether the continuous alarm tone is playing.
func (l *Ladder) IsAlarming() bool {
	return l.state == Constant
}

// State returns the rung currently playing.
func (l *Ladder) State() Kind {
	return l.state
}

// ToneOn reports the last level commanded on the buzzer.
func (l *Ladder) ToneOn() bool {
	return l.toneOn
}

func (l *Ladder) setTone(on bool) {
	l.toneOn = on
	if l.tone == nil {
		return
	}

	if on {
		l.tone.Enable()

		return
	}

	l.tone.Disable()
}
