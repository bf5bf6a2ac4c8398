package monitor

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/domain/alarm"
)

// Struct keys of an encoded frame.
const (
	keySequence     = "sequence"
	keyPower        = "power"
	keyAttached     = "attached"
	keyFault        = "fault"
	keyAlarms       = "alarms"
	keyFields       = "fields"
	keyBars         = "bars"
	keyTone         = "tone"
	keyAliveMinutes = "alive_minutes"

	powerOffAlarm = "power_off"
)

// FrameToStruct encodes a frame. Blank numeric displays are null.
func FrameToStruct(f *display.Frame) (*structpb.Struct, error) {
	fields := make(map[string]any, display.NumFields)

	for i, r := range f.Fields {
		var v any
		if !r.Blank {
			v = r.Value
		}

		fields[display.Field(i).String()] = v
	}

	return structpb.NewStruct(map[string]any{
		keySequence:     f.Sequence,
		keyPower:        f.Power.String(),
		keyAttached:     !f.Blanked,
		keyFault:        f.Fault,
		keyAlarms:       litAlarms(f),
		keyFields:       fields,
		keyTone:         f.Tone,
		keyAliveMinutes: f.AliveMinutes,
		keyBars: map[string]any{
			"tidal_volume":     int32(f.TidalBar),
			"pressure":         int32(f.PressureBar),
			"pressure_peak":    int32(f.Marks.Peak),
			"pressure_mean":    int32(f.Marks.Mean),
			"pressure_min":     int32(f.Marks.Min),
			"pressure_plateau": int32(f.Marks.Plateau),
		},
	})
}

func litAlarms(f *display.Frame) []any {
	out := []any{}

	for id := range alarm.Count {
		if f.LED(uint(id)) {
			out = append(out, id.String())
		}
	}

	if f.LED(display.PowerOffLED) {
		out = append(out, powerOffAlarm)
	}

	return out
}

// Summary is the part of an encoded frame a poller cares about.
type Summary struct {
	Sequence     uint64
	Power        string
	Attached     bool
	Fault        bool
	Tone         bool
	AliveMinutes uint32
	Alarms       []string
}

// Summarize decodes the headline values of an encoded frame.
// Missing keys decode as zero values.
func Summarize(s *structpb.Struct) Summary {
	m := s.GetFields()

	sum := Summary{
		Sequence:     uint64(m[keySequence].GetNumberValue()),
		Power:        m[keyPower].GetStringValue(),
		Attached:     m[keyAttached].GetBoolValue(),
		Fault:        m[keyFault].GetBoolValue(),
		Tone:         m[keyTone].GetBoolValue(),
		AliveMinutes: uint32(m[keyAliveMinutes].GetNumberValue()),
	}

	for _, v := range m[keyAlarms].GetListValue().GetValues() {
		sum.Alarms = append(sum.Alarms, v.GetStringValue())
	}

	return sum
}

// Field returns a numeric display value and whether it is lit.
func Field(s *structpb.Struct, f display.Field) (int32, bool) {
	v, ok := s.GetFields()[keyFields].GetStructValue().GetFields()[f.String()]
	if !ok {
		return 0, false
	}

	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, false
	}

	return int32(v.GetNumberValue()), true
}
