package sim

import (
	"context"
	"sync"

	"github.com/oshokin/vent-panel/internal/controller"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

const (
	// fio2RoomAirMilli is 21 % oxygen in thousandths of a percent.
	fio2RoomAirMilli = 21000
	// plateauDropPa is how far the simulated plateau sits below peak.
	plateauDropPa = 196
	// breathPeriodSkewMs mirrors the controller's averaging skew.
	breathPeriodSkewMs = 10
)

// Circuit simulates the controller and a compliant patient circuit.
type Circuit struct {
	mu sync.Mutex
	// elapsedMs is the simulated time since power on.
	elapsedMs int32
	// stepMs is how far one exchange advances time.
	stepMs int32
	// failures is the number of upcoming exchanges that fail.
	failures int
	// errorWord is reported in every answer.
	errorWord uint16
	// plateauPa is the last measured plateau.
	plateauPa int32
	// last is the most recent request, for inspection.
	last controller.Request
	// exchanges counts answered requests.
	exchanges int
}

// Option configures a Circuit.
type Option func(*Circuit)

// WithFailures makes the first n exchanges fail.
func WithFailures(n int) Option {
	return func(c *Circuit) {
		c.failures = n
	}
}

// WithErrorWord makes the controller report err in every answer.
func WithErrorWord(err uint16) Option {
	return func(c *Circuit) {
		c.errorWord = err
	}
}

// New returns a healthy simulated controller.
func New(opts ...Option) *Circuit {
	c := &Circuit{
		stepMs: int32(tick.Period.Milliseconds()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Exchange answers one request.
func (c *Circuit) Exchange(ctx context.Context, req controller.Request) (controller.Readings, error) {
	if err := ctx.Err(); err != nil {
		return controller.Readings{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures > 0 {
		c.failures--

		return controller.Readings{}, controller.ErrNotAttached
	}

	c.last = req
	c.exchanges++

	r := controller.Readings{
		FIO2Milli: fio2RoomAirMilli,
		Error:     c.errorWord,
	}

	if req.BreathPeriodMs <= 0 {
		c.elapsedMs = 0

		return r, nil
	}

	period := req.BreathPeriodMs
	inspiration := min(req.InspiratoryTimeMs, period)

	if req.Has(controller.FlagPlateau) {
		c.plateauPa = req.PIPPa - plateauDropPa
	}

	r.TidalVolume = req.TidalVolume
	r.LastBreathTidalVolume = req.TidalVolume
	r.MinuteVolume = req.TidalVolume * controller.PeriodMsToBPM(period) / 100 //nolint:mnd // mL*bpm to tenths of a litre.
	r.PressureMaxPa = req.PIPPa
	r.PressureMinPa = req.PEEPPa
	r.PressureMeanPa = (req.PIPPa*inspiration + req.PEEPPa*(period-inspiration)) / period
	r.PressurePlateauPa = c.plateauPa
	r.BreathPeriodAvgMs = period + breathPeriodSkewMs
	r.PeakPressureAvgPa = req.PIPPa
	r.PEEPAvgPa = req.PEEPPa

	// A stopped machine holds the circuit at PEEP and keeps the last breath averages.
	r.PressurePatientPa = req.PEEPPa
	if req.Has(controller.FlagPowerOff) || req.Has(controller.FlagStopVentilation) {
		c.elapsedMs = 0

		return r, nil
	}

	if c.elapsedMs%period < inspiration {
		r.PressurePatientPa = req.PIPPa
	}

	c.elapsedMs += c.stepMs

	return r, nil
}

// FailNext makes the next n exchanges fail.
func (c *Circuit) FailNext(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures = n
}

// SetErrorWord changes the reported controller error.
func (c *Circuit) SetErrorWord(err uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errorWord = err
}

// Last returns the most recent request and the number of answered exchanges.
func (c *Circuit) Last() (controller.Request, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last, c.exchanges
}
