package numeric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValue_AdjustClamps verifies repeated adjustments never leave the bounds.
func TestValue_AdjustClamps(t *testing.T) {
	t.Parallel()

	v := Value{Setpoint: 80, Step: 5, Lower: 0, Upper: 90}
	v.Prime()

	for range 10 {
		v.Increment()
		require.LessOrEqual(t, v.EditVal, v.Upper)
	}

	require.Equal(t, int32(90), v.EditVal)

	for range 40 {
		v.Decrement()
		require.GreaterOrEqual(t, v.EditVal, v.Lower)
	}

	require.Equal(t, int32(0), v.EditVal)
}

// TestValue_EditModes checks the flash variant chosen for each normal mode.
func TestValue_EditModes(t *testing.T) {
	t.Parallel()

	cases := map[DisplayMode][2]DisplayMode{
		ShowValue:    {EditAlarm, ShowValue},
		ShowSetpoint: {EditSetpoint, ShowSetpoint},
		EditAlarm:    {EditAlarm, ShowValue},
	}
	for start, want := range cases {
		v := Value{Mode: start}
		v.BeginEdit()
		require.Equal(t, want[0], v.Mode, start.String())
		v.EndEdit()
		require.Equal(t, want[1], v.Mode, start.String())
	}
}

// TestValue_Shown selects the displayed number per mode.
func TestValue_Shown(t *testing.T) {
	t.Parallel()

	v := Value{Val: 1, Setpoint: 2, EditVal: 3}

	v.Mode = ShowValue
	require.Equal(t, int32(1), v.Shown())
	v.Mode = ShowSetpoint
	require.Equal(t, int32(2), v.Shown())
	v.Mode = EditSetpoint
	require.Equal(t, int32(3), v.Shown())
	v.Mode = EditWithValue
	require.Equal(t, int32(1), v.Shown())
}

// TestDefaults_WithinBounds ensures every editable default starts inside its range.
func TestDefaults_WithinBounds(t *testing.T) {
	t.Parallel()

	d := Defaults()
	for name, v := range map[string]Value{
		"peak":  d.PeakPressure,
		"peep":  d.PEEP,
		"tv":    d.TidalVolume,
		"resp":  d.RespRate,
		"bur":   d.BackupRate,
		"itime": d.InspiratoryTime,
		"fio2":  d.FIO2,
	} {
		require.GreaterOrEqual(t, v.EditVal, v.Lower, name)
		require.LessOrEqual(t, v.EditVal, v.Upper, name)
		require.Equal(t, v.Setpoint, v.EditVal, name)
	}

	require.Less(t, d.PEEP.Setpoint, d.PeakPressure.Setpoint)
}
