package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/vent-panel/internal/domain/panel"
)

// ID names a stored record.
type ID uint8

// Stored records.
const (
	AliveMinutes ID = iota
	InhaleSensitivity
	BreathDetectHoldOff
	PlateauSampleOffset
	PIDKp
	PIDKi
	PIDKd
	DerivativeFilter
	Shape
	IntegralLower
	IntegralUpper
	Delay
	SineAmplitude
	SineFrequency
)

// String returns the key the record is stored under.
func (id ID) String() string {
	switch id {
	case AliveMinutes:
		return "alive_minutes"
	case InhaleSensitivity:
		return "inhale_sensitivity"
	case BreathDetectHoldOff:
		return "breath_detect_hold_off"
	case PlateauSampleOffset:
		return "plateau_sample_offset"
	case PIDKp:
		return "pid_kp"
	case PIDKi:
		return "pid_ki"
	case PIDKd:
		return "pid_kd"
	case DerivativeFilter:
		return "derivative_filter"
	case Shape:
		return "shape"
	case IntegralLower:
		return "integral_lower"
	case IntegralUpper:
		return "integral_upper"
	case Delay:
		return "delay"
	case SineAmplitude:
		return "sine_amplitude"
	case SineFrequency:
		return "sine_frequency"
	default:
		return fmt.Sprintf("record_%d", uint8(id))
	}
}

// tuningFields maps tuning records onto the tuning block.
func tuningFields(t *panel.Tuning) map[ID]*int32 {
	return map[ID]*int32{
		InhaleSensitivity:   &t.InhaleSensitivity,
		BreathDetectHoldOff: &t.BreathDetectHoldOff,
		PlateauSampleOffset: &t.PlateauSampleOffset,
		PIDKp:               &t.Kp,
		PIDKi:               &t.Ki,
		PIDKd:               &t.Kd,
		DerivativeFilter:    &t.DerivativeFilter,
		Shape:               &t.Shape,
		IntegralLower:       &t.IntegralLower,
		IntegralUpper:       &t.IntegralUpper,
		Delay:               &t.Delay,
		SineAmplitude:       &t.SineAmplitude,
		SineFrequency:       &t.SineFrequency,
	}
}

// LoadTuning reads the tuning block, keeping defaults for records never saved.
// Signed values are stored as their 32-bit pattern.
func LoadTuning(ctx context.Context, repo Repository, defaults panel.Tuning) (panel.Tuning, error) {
	t := defaults

	for id, field := range tuningFields(&t) {
		v, err := repo.Load(ctx, id)

		switch {
		case errors.Is(err, ErrNotFound):
			continue
		case err != nil:
			return defaults, fmt.Errorf("load %s: %w", id, err)
		}

		*field = int32(v) //nolint:gosec // Stored as a bit pattern.
	}

	return t, nil
}

// SaveTuning writes every field of the tuning block.
func SaveTuning(ctx context.Context, repo Repository, t panel.Tuning) error {
	for id, field := range tuningFields(&t) {
		if err := repo.Save(ctx, id, uint32(*field)); err != nil { //nolint:gosec // Stored as a bit pattern.
			return fmt.Errorf("save %s: %w", id, err)
		}
	}

	return nil
}
