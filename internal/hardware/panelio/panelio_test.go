package panelio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vent-panel/internal/domain/button"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

type readResult struct {
	pos button.Positions
	err error
}

// queueSource returns queued reads, then repeats the last one.
type queueSource struct {
	reads []readResult
}

func (q *queueSource) Read() (button.Positions, error) {
	r := q.reads[0]
	if len(q.reads) > 1 {
		q.reads = q.reads[1:]
	}

	return r.pos, r.err
}

func pressed(t *testing.T, name string) button.Positions {
	t.Helper()

	pos, err := ParseButton(name)
	require.NoError(t, err)

	return pos
}

// TestDebouncer_Inconsistent verifies that disagreeing or failing reads are skipped.
func TestDebouncer_Inconsistent(t *testing.T) {
	t.Parallel()

	peep := pressed(t, "set_peep")

	src := &queueSource{reads: []readResult{
		{pos: peep}, {pos: peep}, {},
		{pos: peep}, {err: errors.New("bus glitch")},
		{pos: peep},
	}}
	d := NewDebouncer(src)

	_, ok, err := d.ReadButtons()
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = d.ReadButtons()
	require.NoError(t, err)
	require.False(t, ok)

	got, ok, err := d.ReadButtons()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, peep, got)
}

// TestDebouncer_Stuck reports a button held for the stuck limit.
func TestDebouncer_Stuck(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(&queueSource{reads: []readResult{{pos: pressed(t, "adjust_up")}}})

	for range tick.ButtonStuck - 1 {
		_, ok, err := d.ReadButtons()
		require.NoError(t, err)
		require.True(t, ok)
	}

	_, ok, err := d.ReadButtons()
	require.ErrorIs(t, err, ErrStuckButton)
	require.ErrorContains(t, err, "adjust_up")
	require.False(t, ok)
}

// TestDebouncer_ReleaseResetsStuck checks that a release restarts the count.
func TestDebouncer_ReleaseResetsStuck(t *testing.T) {
	t.Parallel()

	down := pressed(t, "get_plateau")
	src := &queueSource{reads: []readResult{{pos: down}}}
	d := NewDebouncer(src)

	for range tick.ButtonStuck - 1 {
		_, _, err := d.ReadButtons()
		require.NoError(t, err)
	}

	src.reads = []readResult{{}, {}, {}, {pos: down}}

	_, ok, err := d.ReadButtons()
	require.NoError(t, err)
	require.True(t, ok)

	for range tick.ButtonStuck - 1 {
		_, _, err = d.ReadButtons()
		require.NoError(t, err)
	}
}

// TestScript_Replay verifies that scripted presses are down for exactly their window.
func TestScript_Replay(t *testing.T) {
	t.Parallel()

	s, err := NewScript([]Press{
		{Button: "set_peep", At: 2, Hold: 3},
		{Button: "adjust_up", At: 3, Hold: 1},
	})
	require.NoError(t, err)

	d := NewDebouncer(s)

	var samples []button.Positions

	for range 7 {
		pos, ok, err := d.ReadButtons()
		require.NoError(t, err)
		require.True(t, ok)

		samples = append(samples, pos)
	}

	require.False(t, samples[0].Any())
	require.False(t, samples[1].Any())
	require.True(t, samples[2].Primary[button.SetPEEP])
	require.False(t, samples[2].Adjust[button.AdjustUp])
	require.True(t, samples[3].Primary[button.SetPEEP])
	require.True(t, samples[3].Adjust[button.AdjustUp])
	require.True(t, samples[4].Primary[button.SetPEEP])
	require.False(t, samples[5].Any())
	require.Equal(t, uint32(6), s.Frame())
}

// TestParseButton covers every name and an unknown one.
func TestParseButton(t *testing.T) {
	t.Parallel()

	for id := range button.NumPrimary {
		pos, err := ParseButton(id.String())
		require.NoError(t, err)
		require.True(t, pos.Primary[id])
	}

	for id := range button.NumAdjust {
		pos, err := ParseButton(id.String())
		require.NoError(t, err)
		require.True(t, pos.Adjust[id])
	}

	_, err := NewScript([]Press{{Button: "set_volume", Hold: 1}})
	require.ErrorIs(t, err, ErrUnknownButton)
}

// TestTone tracks the buzzer level.
func TestTone(t *testing.T) {
	t.Parallel()

	tone := NewTone(context.Background())
	require.False(t, tone.On())

	tone.Enable()
	tone.Enable()
	require.True(t, tone.On())

	tone.Disable()
	require.False(t, tone.On())

	require.True(t, LowPowerPin(true).LowPower())
}
