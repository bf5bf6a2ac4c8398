package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		"warn":   zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		" WARN ": zapcore.WarnLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("fatal")
	require.False(t, ok)
}

// TestParseFormat accepts console, json and the empty default.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{"": FormatConsole, "Console": FormatConsole, " json ": FormatJSON} {
		got, ok := ParseFormat(in)
		require.True(t, ok, in)
		require.Equal(t, want, got)
	}

	_, ok := ParseFormat("xml")
	require.False(t, ok)
}

// TestConfigure_RejectsUnknownNames leaves the logger and level untouched.
func TestConfigure_RejectsUnknownNames(t *testing.T) {
	t.Parallel()

	before, level := Logger(), Level()

	require.ErrorIs(t, Configure("loud", "json"), errUnknownLevel)
	require.ErrorIs(t, Configure("info", "xml"), errUnknownFormat)
	require.Same(t, before, Logger())
	require.Equal(t, level, Level())
}

// TestNew_JSON writes through the JSON encoder without panicking on named loggers.
func TestNew_JSON(t *testing.T) {
	t.Parallel()

	l := New(zapcore.DebugLevel, FormatJSON).Named("cycle")
	require.NotNil(t, l)
	require.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
}
