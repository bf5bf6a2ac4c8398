package display

import (
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/numeric"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// Field is one numeric display on the panel.
type Field uint8

// Numeric displays.
const (
	MinuteVolume Field = iota
	RespRate
	InspiratoryTime
	PeakPressure
	BackupRate
	TidalVolume
	PEEP
	FIO2

	// NumFields is the number of numeric displays.
	NumFields
)

// String implements fmt.Stringer.
func (f Field) String() string {
	switch f {
	case MinuteVolume:
		return "minute_volume"
	case RespRate:
		return "resp_rate"
	case InspiratoryTime:
		return "inspiratory_time"
	case PeakPressure:
		return "peak_pressure"
	case BackupRate:
		return "backup_rate"
	case TidalVolume:
		return "tidal_volume"
	case PEEP:
		return "peep"
	case FIO2:
		return "fio2"
	default:
		return "unknown"
	}
}

// Bar graph geometry in panel units.
const (
	// BarHeight is the number of LEDs in one bar graph.
	BarHeight = 40

	tidalBarShift     = 100
	tidalBarHeight    = 800
	pressureBarShift  = 0
	pressureBarHeight = 100
)

// PowerOffLED is the alarm LED bit of the standby indicator.
// Bits below it are indexed by alarm.ID.
const PowerOffLED = uint(alarm.Count)

// Reading is the content of one numeric display.
type Reading struct {
	// Value is the number shown; meaningless when Blank is set.
	Value int32
	// Blank is set when the display is dark.
	Blank bool
}

// PressureMarks are the points drawn on the pressure range bar graph.
type PressureMarks struct {
	Peak    uint8
	Mean    uint8
	Min     uint8
	Plateau uint8
}

// Frame is one composed panel image.
type Frame struct {
	// Sequence numbers frames in publish order.
	Sequence uint64
	// Fields are the numeric displays, indexed by Field.
	Fields [NumFields]Reading
	// TidalBar is the tidal volume level bar, 0..BarHeight.
	TidalBar uint8
	// PressureBar is the patient pressure level bar, 0..BarHeight.
	PressureBar uint8
	// Marks are the pressure range points, 0..BarHeight each.
	Marks PressureMarks
	// LEDs is the alarm LED bit set.
	LEDs uint16
	// Blanked is set when the whole panel is dark.
	Blanked bool
	// Fault is set on a machine fault frame.
	Fault bool
	// Tone reports the buzzer level.
	Tone bool
	// Power is the power state the frame was composed in.
	Power power.State
	// AliveMinutes is the persisted running time.
	AliveMinutes uint32
}

// LED reports whether the alarm LED bit is lit.
func (f *Frame) LED(bit uint) bool {
	return f.LEDs&(1<<bit) != 0
}

// View is the state handed to the display each cycle.
type View struct {
	Values       numeric.Values
	Alarms       [alarm.Count]alarm.Status
	PowerOff     alarm.Status
	Blink        uint32
	Power        power.State
	AliveMinutes uint32
	Tone         bool
	// ForceBlank darkens the panel, used until the controller attaches.
	ForceBlank bool
	// Fault shows the machine fault image.
	Fault bool
}

// Compose builds the frame for v.
func Compose(v View) Frame {
	f := Frame{
		Power:        v.Power,
		AliveMinutes: v.AliveMinutes,
		Tone:         v.Tone,
	}

	switch {
	case v.Fault:
		blankFields(&f)
		f.Fault = true
		f.LEDs = 1 << uint(alarm.MachineFault)
	case v.ForceBlank:
		blankFields(&f)
		f.Blanked = true
	case v.Power == power.Off:
		blankFields(&f)
		f.LEDs = 1 << PowerOffLED
	case v.Power == power.Powering:
		hours := v.AliveMinutes / 60 //nolint:mnd // Minutes per hour.

		blankFields(&f)
		f.Fields[RespRate] = Reading{Value: int32(hours / 100)}     //nolint:gosec,mnd // Upper two digits.
		f.Fields[MinuteVolume] = Reading{Value: int32(hours % 100)} //nolint:gosec,mnd // Lower two digits.
	default:
		running(&f, &v)
	}

	return f
}

func running(f *Frame, v *View) {
	vals := &v.Values

	f.Fields[MinuteVolume] = shown(&vals.MinuteVolume, v.Blink)
	f.Fields[RespRate] = shown(&vals.RespRate, v.Blink)
	f.Fields[InspiratoryTime] = shown(&vals.InspiratoryTime, v.Blink)
	f.Fields[PeakPressure] = shown(&vals.PeakPressure, v.Blink)
	f.Fields[BackupRate] = shown(&vals.BackupRate, v.Blink)
	f.Fields[TidalVolume] = shown(&vals.TidalVolume, v.Blink)
	f.Fields[PEEP] = shown(&vals.PEEP, v.Blink)
	f.Fields[FIO2] = shown(&vals.FIO2, v.Blink)

	f.TidalBar = ScaleBar(vals.TidalVolume.Val, tidalBarShift, tidalBarHeight)
	f.PressureBar = ScaleBar(vals.Pressure.Val, pressureBarShift, pressureBarHeight)
	f.Marks = PressureMarks{
		Peak:    ScaleBar(vals.PeakPressure.Val, pressureBarShift, pressureBarHeight),
		Mean:    ScaleBar(vals.PressureMean.Val, pressureBarShift, pressureBarHeight),
		Min:     ScaleBar(vals.PressureMin.Val, pressureBarShift, pressureBarHeight),
		Plateau: ScaleBar(vals.PressurePlateau.Val, pressureBarShift, pressureBarHeight),
	}

	for id, st := range v.Alarms {
		if st.Lit() {
			f.LEDs |= 1 << uint(id)
		}
	}

	if v.PowerOff.Lit() {
		f.LEDs |= 1 << PowerOffLED
	}
}

// shown returns the reading of a value, dark during the off phase of an edit blink.
func shown(v *numeric.Value, blink uint32) Reading {
	if v.Mode.Editing() && blink < tick.BlinkOff {
		return Reading{Blank: true}
	}

	return Reading{Value: v.Shown()}
}

func blankFields(f *Frame) {
	for i := range f.Fields {
		f.Fields[i] = Reading{Blank: true}
	}
}

// ScaleBar maps value onto a bar graph whose bottom is shift and whose span is height.
func ScaleBar(value, shift, height int32) uint8 {
	if value <= shift {
		return 0
	}

	value -= shift
	if value >= height {
		return BarHeight
	}

	return uint8((value*BarHeight + BarHeight/2) / height) //nolint:gosec // Bounded by BarHeight.
}
