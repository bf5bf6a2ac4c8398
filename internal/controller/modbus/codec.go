package modbus

import (
	"errors"
	"fmt"

	"github.com/oshokin/vent-panel/internal/controller"
)

const (
	// requestAddress is the first holding register of the request block.
	requestAddress uint16 = 0
	// readingsAddress is the first input register of the readings block.
	readingsAddress uint16 = 0

	// requestWords is the number of int32 fields in a request.
	requestWords = 18
	// readingsWords is the number of int32 fields in the readings.
	readingsWords = 12

	// RequestRegisters is the request block size: two registers per field plus flags.
	RequestRegisters = requestWords*2 + 1
	// ReadingsRegisters is the readings block size: two registers per field plus the error word.
	ReadingsRegisters = readingsWords*2 + 1
)

// errShortReadings is returned when the controller answers with fewer registers than expected.
var errShortReadings = errors.New("short readings block")

// encodeRequest lays the request out as holding registers.
func encodeRequest(req *controller.Request) []uint16 {
	t := &req.Tuning
	words := [requestWords]int32{
		req.TidalVolume,
		req.InspiratoryTimeMs,
		req.BreathPeriodMs,
		req.PIPPa,
		req.PEEPPa,
		t.InhaleSensitivity,
		t.BreathDetectHoldOff,
		t.PlateauSampleOffset,
		t.Kp,
		t.Ki,
		t.Kd,
		t.DerivativeFilter,
		t.Shape,
		t.IntegralLower,
		t.IntegralUpper,
		t.Delay,
		t.SineAmplitude,
		t.SineFrequency,
	}

	regs := make([]uint16, 0, RequestRegisters)
	for _, w := range words {
		regs = appendInt32(regs, w)
	}

	return append(regs, req.Flags)
}

// decodeReadings reads the controller answer.
func decodeReadings(regs []uint16) (controller.Readings, error) {
	if len(regs) < ReadingsRegisters {
		return controller.Readings{}, fmt.Errorf("readings block has %d registers: %w", len(regs), errShortReadings)
	}

	w := func(i int) int32 { return int32(uint32(regs[2*i])<<16 | uint32(regs[2*i+1])) } //nolint:gosec // Bit pattern.

	return controller.Readings{
		TidalVolume:           w(0),
		MinuteVolume:          w(1),
		LastBreathTidalVolume: w(2),
		FIO2Milli:             w(3),
		PressureMaxPa:         w(4),
		PressureMinPa:         w(5),
		PressureMeanPa:        w(6),
		PressurePlateauPa:     w(7),
		BreathPeriodAvgMs:     w(8),
		PressurePatientPa:     w(9),
		PeakPressureAvgPa:     w(10),
		PEEPAvgPa:             w(11),
		Error:                 regs[2*readingsWords],
	}, nil
}

func appendInt32(regs []uint16, v int32) []uint16 {
	u := uint32(v) //nolint:gosec // Bit pattern.

	return append(regs, uint16(u>>16), uint16(u)) //nolint:gosec // Split into words.
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}

	return out
}

func unpackRegisters(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}

	return out
}
