package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// TestRunState_TripThenLatch drives a tripped alarm through set and latch.
func TestRunState_TripThenLatch(t *testing.T) {
	t.Parallel()

	a := Alarm{TripTime: 50, LatchTime: 100}

	for i := uint32(1); i <= 150; i++ {
		tone := a.RunState(true, 0)

		switch {
		case i < 50:
			require.Equal(t, Off, a.Status, "tick %d", i)
			require.False(t, tone)
		case i < 100:
			require.Equal(t, Set, a.Status, "tick %d", i)
			require.True(t, tone)
		default:
			require.Equal(t, Latch, a.Status, "tick %d", i)
			require.True(t, tone)
		}
	}

	for range 1000 {
		require.True(t, a.RunState(false, 0))
		require.Equal(t, Latch, a.Status)
	}

	a.Reset()
	require.Equal(t, Off, a.Status)
	require.Zero(t, a.Count)
}

// TestRunState_OffIsIdempotent checks that an untripped alarm stays off.
func TestRunState_OffIsIdempotent(t *testing.T) {
	t.Parallel()

	a := Alarm{TripTime: 1, LatchTime: 10}

	for range 100 {
		require.False(t, a.RunState(false, 0))
		require.Equal(t, Off, a.Status)
		require.Zero(t, a.Count)
	}
}

// TestRunState_SetAutoClears verifies a set alarm clears with its condition.
func TestRunState_SetAutoClears(t *testing.T) {
	t.Parallel()

	a := Alarm{TripTime: 1, LatchTime: 10}
	a.RunState(true, 0)
	require.Equal(t, Set, a.Status)

	require.False(t, a.RunState(false, 0))
	require.Equal(t, Off, a.Status)
	require.Zero(t, a.Count)
}

// TestRunState_Blink follows the blink counter and ignores the trip input.
func TestRunState_Blink(t *testing.T) {
	t.Parallel()

	a := Alarm{Status: BlinkOn, TripTime: 1, LatchTime: 1}

	require.True(t, a.RunState(false, 0))
	require.Equal(t, BlinkOn, a.Status)
	require.True(t, a.RunState(true, tick.BlinkOff))
	require.Equal(t, BlinkOff, a.Status)
	require.True(t, a.RunState(false, tick.BlinkOff-1))
	require.Equal(t, BlinkOn, a.Status)
	require.False(t, BlinkOff.Lit())
	require.True(t, BlinkOn.Lit())
}
