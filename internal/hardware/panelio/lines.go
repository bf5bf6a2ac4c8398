package panelio

import (
	"context"

	"github.com/oshokin/vent-panel/internal/logger"
)

// LowPowerPin is a fixed low-power sense line.
type LowPowerPin bool

// LowPower reports whether the line is asserted.
func (p LowPowerPin) LowPower() bool {
	return bool(p)
}

// Tone is a buzzer that logs its edges.
type Tone struct {
	ctx context.Context //nolint:containedctx // Carries the logger for edge lines.
	on  bool
}

// NewTone returns a silent buzzer logging through ctx.
func NewTone(ctx context.Context) *Tone {
	return &Tone{ctx: logger.WithName(ctx, "tone")}
}

// Enable turns the buzzer on.
func (t *Tone) Enable() {
	if !t.on {
		logger.Debug(t.ctx, "Tone on")
	}

	t.on = true
}

// Disable turns the buzzer off.
func (t *Tone) Disable() {
	if t.on {
		logger.Debug(t.ctx, "Tone off")
	}

	t.on = false
}

// On reports the buzzer level.
func (t *Tone) On() bool {
	return t.on
}
