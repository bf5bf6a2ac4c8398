package display

import (
	"context"
	"sync/atomic"

	"github.com/oshokin/vent-panel/internal/logger"
)

// Publisher renders views and keeps the most recent frame for concurrent readers.
// Render, ShowMachineFault and ShutdownMotor are called only from the control cycle.
type Publisher struct {
	ctx context.Context //nolint:containedctx // Carries the logger of the control cycle.

	latest   atomic.Pointer[Frame]
	sequence atomic.Uint64
	motorOff atomic.Bool
}

// NewPublisher returns a publisher holding a blank frame with sequence zero,
// which readers treat as nothing rendered yet.
func NewPublisher(ctx context.Context) *Publisher {
	p := &Publisher{ctx: logger.WithName(ctx, "display")}

	seed := Compose(View{ForceBlank: true})
	p.latest.Store(&seed)

	return p
}

// Render composes and publishes v.
func (p *Publisher) Render(v View) {
	p.store(Compose(v))
}

// ShowMachineFault publishes the machine fault image.
func (p *Publisher) ShowMachineFault() {
	if prev := p.latest.Load(); prev != nil && prev.Fault {
		return
	}

	logger.Error(p.ctx, "Showing machine fault")
	p.store(Compose(View{Fault: true}))
}

// ShutdownMotor cuts ventilation motor control. Only the first call logs.
func (p *Publisher) ShutdownMotor() {
	if p.motorOff.CompareAndSwap(false, true) {
		logger.Error(p.ctx, "Ventilation motor shut down")
	}
}

// MotorOff reports whether the motor was shut down.
func (p *Publisher) MotorOff() bool {
	return p.motorOff.Load()
}

// Latest returns a copy of the last published frame.
func (p *Publisher) Latest() Frame {
	return *p.latest.Load()
}

func (p *Publisher) store(f Frame) {
	f.Sequence = p.sequence.Add(1)
	p.latest.Store(&f)
}
