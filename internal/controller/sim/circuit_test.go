package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vent-panel/internal/controller"
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/panel"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// TestCircuit_HealthyTripsNothing runs default setpoints through the
// simulator and the alarm bank for a minute.
func TestCircuit_HealthyTripsNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := New()
	st := panel.New(nil)
	st.Power = power.On

	for range tick.PerMinute {
		r, err := c.Exchange(ctx, controller.NewRequest(st))
		require.NoError(t, err)
		controller.Apply(st, r)
		st.Alarms.Run(&st.Values, st.Sense(false), st.Power)
	}

	require.Empty(t, st.Alarms.Active())
	require.Equal(t, st.Values.BackupRate.Setpoint, st.Values.RespRate.Val)
	require.Equal(t, int32(21), st.Values.FIO2.Val)

	_, n := c.Last()
	require.Equal(t, tick.PerMinute, n)
}

// TestCircuit_PressureFollowsBreath swings between PEEP and PIP.
func TestCircuit_PressureFollowsBreath(t *testing.T) {
	t.Parallel()

	c := New()
	req := controller.Request{
		BreathPeriodMs:    1000,
		InspiratoryTimeMs: 400,
		PIPPa:             2940,
		PEEPPa:            490,
	}

	seen := map[int32]int{}
	for range tick.PerSecond {
		r, err := c.Exchange(context.Background(), req)
		require.NoError(t, err)

		seen[r.PressurePatientPa]++
	}

	require.Equal(t, 20, seen[2940])
	require.Equal(t, 30, seen[490])
}

// TestCircuit_Injection covers injected link failures and error words.
func TestCircuit_Injection(t *testing.T) {
	t.Parallel()

	c := New(WithFailures(2), WithErrorWord(7))

	for range 2 {
		_, err := c.Exchange(context.Background(), controller.Request{})
		require.ErrorIs(t, err, controller.ErrNotAttached)
	}

	r, err := c.Exchange(context.Background(), controller.Request{Flags: controller.FlagPowerOff})
	require.NoError(t, err)
	require.Equal(t, uint16(7), r.Error)
	require.Zero(t, r.PressurePatientPa)

	c.SetErrorWord(0)
	c.FailNext(1)

	_, err = c.Exchange(context.Background(), controller.Request{})
	require.Error(t, err)

	st := panel.New(nil)
	r, err = c.Exchange(context.Background(), controller.NewRequest(st))
	require.NoError(t, err)
	controller.Apply(st, r)
	require.False(t, st.Sense(false).MachineFault)
	require.Equal(t, alarm.Off, st.Alarms.Status(alarm.MachineFault))
}

// TestCircuit_StandbyHoldsPEEP keeps a powered-off panel free of alarms.
func TestCircuit_StandbyHoldsPEEP(t *testing.T) {
	t.Parallel()

	c := New()
	st := panel.New(nil)

	for range tick.PerMinute {
		r, err := c.Exchange(context.Background(), controller.NewRequest(st))
		require.NoError(t, err)
		require.Equal(t, controller.CmH2OToPascal(st.Values.PEEP.Setpoint), r.PressurePatientPa)

		controller.Apply(st, r)
		st.Alarms.Run(&st.Values, st.Sense(false), st.Power)
	}

	require.Empty(t, st.Alarms.Active())
}
