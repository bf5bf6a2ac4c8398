package cycle

import (
	"context"

	"github.com/oshokin/vent-panel/internal/controller"
	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/domain/button"
)

// Watchdog paces the cycle and guards the fail-safe deadline.
type Watchdog interface {
	// Wait blocks until the next cycle edge.
	Wait(ctx context.Context) error
	// Stroke proves liveness to the external watchdog.
	Stroke()
	// ResetDeadline re-arms the fail-safe deadline.
	ResetDeadline()
}

// Controller exchanges one request for one set of readings.
type Controller interface {
	Exchange(ctx context.Context, req controller.Request) (controller.Readings, error)
}

// Display receives the panel image each cycle.
type Display interface {
	Render(v display.View)
}

// Buttons returns one debounced button sample.
// ok=false means the sample was inconsistent and should be skipped.
type Buttons interface {
	ReadButtons() (pos button.Positions, ok bool, err error)
}

// Sensors are the discrete inputs read by the alarm bank.
type Sensors interface {
	LowPower() bool
}

// FaultLine is driven when the panel faults.
type FaultLine interface {
	ShutdownMotor()
	ShowMachineFault()
}
