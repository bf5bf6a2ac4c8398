package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/panel"
	"github.com/oshokin/vent-panel/internal/domain/power"
)

// TestUnits covers the pressure and rate conversions.
func TestUnits(t *testing.T) {
	t.Parallel()

	require.Equal(t, int32(980), CmH2OToPascal(10))
	require.Equal(t, int32(10), PascalToCmH2O(1000))
	require.Equal(t, int32(5000), BPMToPeriodMs(12))
	require.Equal(t, int32(4615), BPMToPeriodMs(13))
	require.Equal(t, int32(12), PeriodMsToBPM(5000))
	require.Zero(t, PeriodMsToBPM(0))
	require.Zero(t, BPMToPeriodMs(-1))
}

// TestNewRequest converts setpoints and raises the right flags.
func TestNewRequest(t *testing.T) {
	t.Parallel()

	st := panel.New(nil)
	st.Values.TidalVolume.Setpoint = 450
	st.Values.InspiratoryTime.Setpoint = 12
	st.Values.BackupRate.Setpoint = 15
	st.Values.PeakPressure.Setpoint = 30
	st.Values.PEEP.Setpoint = 5

	req := NewRequest(st)
	require.Equal(t, int32(450), req.TidalVolume)
	require.Equal(t, int32(1200), req.InspiratoryTimeMs)
	require.Equal(t, int32(4000), req.BreathPeriodMs)
	require.Equal(t, int32(2940), req.PIPPa)
	require.Equal(t, int32(490), req.PEEPPa)
	require.Equal(t, st.Tuning, req.Tuning)
	require.Equal(t, FlagPowerOff, req.Flags)

	st.Power = power.On
	st.PlateauSends = 1
	st.Alarms.Latch(alarm.MachineFault)

	req = NewRequest(st)
	require.False(t, req.Has(FlagPowerOff))
	require.True(t, req.Has(FlagPlateau))
	require.True(t, req.Has(FlagMachineFault))
	require.False(t, req.Has(FlagSoftwareAssert))

	st.Fault = true
	require.True(t, NewRequest(st).Has(FlagSoftwareAssert))
}

// TestApply stores readings in panel units.
func TestApply(t *testing.T) {
	t.Parallel()

	st := panel.New(nil)
	Apply(st, Readings{
		TidalVolume:           400,
		MinuteVolume:          48,
		LastBreathTidalVolume: 410,
		FIO2Milli:             21500,
		PressureMaxPa:         2940,
		PressureMinPa:         490,
		PressureMeanPa:        1470,
		PressurePlateauPa:     2450,
		BreathPeriodAvgMs:     5010,
		PressurePatientPa:     1960,
		PeakPressureAvgPa:     2940,
		PEEPAvgPa:             490,
		Error:                 2,
	})

	v := st.Values
	require.Equal(t, int32(410), v.TidalVolumeLast.Val)
	require.Equal(t, int32(21), v.FIO2.Val)
	require.Equal(t, int32(30), v.PeakPressure.Val)
	require.Equal(t, int32(5), v.PEEP.Val)
	require.Equal(t, int32(5), v.PEEPAverage.Val)
	require.Equal(t, int32(15), v.PressureMean.Val)
	require.Equal(t, int32(25), v.PressurePlateau.Val)
	require.Equal(t, int32(20), v.Pressure.Val)
	require.Equal(t, int32(12), v.RespRate.Val)
	require.Equal(t, uint16(2), st.ControllerError)
}
