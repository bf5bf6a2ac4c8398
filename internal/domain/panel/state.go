package panel

import (
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/button"
	"github.com/oshokin/vent-panel/internal/domain/numeric"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/sound"
)

// Tuning is the controller parameter block sent with every exchange.
type Tuning struct {
	// InhaleSensitivity is the pressure drop that detects a patient breath, Pa.
	InhaleSensitivity int32
	// BreathDetectHoldOff is the dead time after a breath before detection, ms.
	BreathDetectHoldOff int32
	// PlateauSampleOffset is the delay into the pause before sampling plateau, ms.
	PlateauSampleOffset int32
	// Kp is the proportional gain of the pressure loop.
	Kp int32
	// Ki is the integral gain.
	Ki int32
	// Kd is the derivative gain.
	Kd int32
	// DerivativeFilter is the derivative low-pass constant.
	DerivativeFilter int32
	// Shape is the pressure rise shaping factor.
	Shape int32
	// IntegralLower bounds the integrator from below.
	IntegralLower int32
	// IntegralUpper bounds the integrator from above.
	IntegralUpper int32
	// Delay is the actuator delay compensation, ms.
	Delay int32
	// SineAmplitude is the test excitation amplitude.
	SineAmplitude int32
	// SineFrequency is the test excitation frequency.
	SineFrequency int32
}

// DefaultTuning returns the controller parameters used when none are stored.
//
//nolint:mnd // Factory calibration values.
func DefaultTuning() Tuning {
	return Tuning{
		InhaleSensitivity:   200,
		BreathDetectHoldOff: 300,
		PlateauSampleOffset: 100,
		Kp:                  30591,
		Ki:                  84127,
		Kd:                  1835,
		DerivativeFilter:    3183,
		Shape:               1000,
		IntegralLower:       -59,
		IntegralUpper:       59,
	}
}

// State is everything the control cycle owns.
type State struct {
	// Values are the operator parameters and their readings.
	Values numeric.Values
	// Sound is the tone sequencer.
	Sound *sound.Ladder
	// Alarms is the alarm bank.
	Alarms *alarm.Bank
	// Buttons is the button registry.
	Buttons *button.Registry
	// Sequencer advances Power.
	Sequencer *power.Sequencer
	// Power is the ventilation power state.
	Power power.State
	// Tuning is sent to the controller on every exchange.
	Tuning Tuning
	// PlateauSends counts exchanges that still carry a plateau request.
	PlateauSends uint8
	// AliveMinutes is the persisted running-time counter.
	AliveMinutes uint32
	// Attached is set once the controller has answered.
	Attached bool
	// ControllerError is the error word of the last readings.
	ControllerError uint16
	// Fault is set when the panel has hit a fatal error.
	Fault bool
}

// New returns a panel in standby with default parameters.
func New(tone sound.Tone) *State {
	ladder := sound.NewLadder(tone)
	bank := alarm.NewBank(ladder)

	return &State{
		Values:    numeric.Defaults(),
		Sound:     ladder,
		Alarms:    bank,
		Buttons:   button.NewRegistry(ladder, bank),
		Sequencer: power.NewSequencer(),
		Power:     power.Off,
		Tuning:    DefaultTuning(),
	}
}

// Sense gathers the non-numeric alarm inputs.
func (s *State) Sense(lowPower bool) alarm.Sense {
	return alarm.Sense{
		LowPower:     lowPower,
		MachineFault: s.Fault || s.ControllerError != 0,
	}
}

// MachineFaultRaised reports whether the machine fault alarm is set or latched.
func (s *State) MachineFaultRaised() bool {
	st := s.Alarms.Status(alarm.MachineFault)

	return st == alarm.Set || st == alarm.Latch
}
