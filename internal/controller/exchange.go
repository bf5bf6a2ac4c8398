package controller

import (
	"context"
	"errors"

	"github.com/oshokin/vent-panel/internal/domain/numeric"
	"github.com/oshokin/vent-panel/internal/domain/panel"
	"github.com/oshokin/vent-panel/internal/domain/power"
)

// Flag bits of the request flags word.
const (
	FlagPowerOff uint16 = 1 << iota
	FlagPlateau
	FlagStopVentilation
	FlagSoftwareAssert
	FlagMachineFault
)

// breathPeriodAdjustMs is subtracted from the averaged breath period before
// it is shown as a rate.
const breathPeriodAdjustMs = 10

// ErrNotAttached is returned by transports that have no link to a controller.
var ErrNotAttached = errors.New("controller not attached")

// Request is what the panel sends each cycle.
type Request struct {
	// TidalVolume is the tidal volume setpoint, mL.
	TidalVolume int32
	// InspiratoryTimeMs is the inspiration time, ms.
	InspiratoryTimeMs int32
	// BreathPeriodMs is the mandatory breath period, ms.
	BreathPeriodMs int32
	// PIPPa is the peak pressure limit, Pa.
	PIPPa int32
	// PEEPPa is the PEEP setpoint, Pa.
	PEEPPa int32
	// Tuning is the controller parameter block.
	Tuning panel.Tuning
	// Flags is a bit set of Flag* values.
	Flags uint16
}

// Has reports whether flag is set.
func (r *Request) Has(flag uint16) bool {
	return r.Flags&flag != 0
}

// Readings is what the controller answers.
type Readings struct {
	// TidalVolume is the running tidal volume, mL.
	TidalVolume int32
	// MinuteVolume is the minute volume, tenths of a litre.
	MinuteVolume int32
	// LastBreathTidalVolume is the tidal volume of the last breath, mL.
	LastBreathTidalVolume int32
	// FIO2Milli is the oxygen fraction in thousandths of a percent.
	FIO2Milli int32
	// PressureMaxPa is the last breath peak pressure.
	PressureMaxPa int32
	// PressureMinPa is the last breath minimum pressure.
	PressureMinPa int32
	// PressureMeanPa is the last breath mean pressure.
	PressureMeanPa int32
	// PressurePlateauPa is the last plateau measurement.
	PressurePlateauPa int32
	// BreathPeriodAvgMs is the averaged breath period.
	BreathPeriodAvgMs int32
	// PressurePatientPa is the instantaneous patient pressure.
	PressurePatientPa int32
	// PeakPressureAvgPa is the averaged peak pressure.
	PeakPressureAvgPa int32
	// PEEPAvgPa is the averaged PEEP.
	PEEPAvgPa int32
	// Error is the controller error word; zero means healthy.
	Error uint16
}

// Exchanger performs one request/response round trip.
type Exchanger interface {
	Exchange(ctx context.Context, req Request) (Readings, error)
}

// NewRequest builds the outgoing request from the panel state.
func NewRequest(st *panel.State) Request {
	v := &st.Values

	req := Request{
		TidalVolume:       v.TidalVolume.Setpoint,
		InspiratoryTimeMs: v.InspiratoryTime.Setpoint * 100, //nolint:mnd // Tenths of a second to ms.
		BreathPeriodMs:    BPMToPeriodMs(v.BackupRate.Setpoint),
		PIPPa:             CmH2OToPascal(v.PeakPressure.Setpoint),
		PEEPPa:            CmH2OToPascal(v.PEEP.Setpoint),
		Tuning:            st.Tuning,
	}

	if st.Power != power.On {
		req.Flags |= FlagPowerOff
	}

	if st.PlateauSends > 0 {
		req.Flags |= FlagPlateau
	}

	if st.Alarms.Halt() {
		req.Flags |= FlagStopVentilation
	}

	if st.Fault {
		req.Flags |= FlagSoftwareAssert | FlagMachineFault
	}

	if st.MachineFaultRaised() {
		req.Flags |= FlagMachineFault
	}

	return req
}

// Apply stores the readings in the panel values.
func Apply(st *panel.State, r Readings) {
	v := &st.Values

	v.TidalVolume.Val = r.TidalVolume
	v.MinuteVolume.Val = r.MinuteVolume
	v.TidalVolumeLast.Val = r.LastBreathTidalVolume
	v.FIO2.Val = r.FIO2Milli / 1000 //nolint:mnd // Thousandths of a percent.

	v.PeakPressure.Val = PascalToCmH2O(r.PressureMaxPa)
	v.PressureMin.Val = PascalToCmH2O(r.PressureMinPa)
	v.PEEP.Val = v.PressureMin.Val
	v.PressureMean.Val = PascalToCmH2O(r.PressureMeanPa)
	v.PressurePlateau.Val = PascalToCmH2O(r.PressurePlateauPa)
	v.Pressure.Val = PascalToCmH2O(r.PressurePatientPa)
	v.PeakPressureAverage.Val = PascalToCmH2O(r.PeakPressureAvgPa)
	v.PEEPAverage.Val = PascalToCmH2O(r.PEEPAvgPa)

	setRate(&v.RespRate, r.BreathPeriodAvgMs)

	st.ControllerError = r.Error
}

func setRate(v *numeric.Value, periodMs int32) {
	v.Val = PeriodMsToBPM(periodMs - breathPeriodAdjustMs)
}
