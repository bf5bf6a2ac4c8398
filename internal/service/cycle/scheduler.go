package cycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/vent-panel/internal/controller"
	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/panel"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/sound"
	"github.com/oshokin/vent-panel/internal/domain/tick"
	"github.com/oshokin/vent-panel/internal/logger"
	"github.com/oshokin/vent-panel/internal/repository/records"
)

// Mode is the operating mode of the scheduler.
type Mode uint8

const (
	// Normal runs the full cycle.
	Normal Mode = iota
	// Fault is terminal: the motor is off and only fault reporting runs.
	Fault
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Watchdog   Watchdog
	Controller Controller
	Display    Display
	Buttons    Buttons
	Store      records.Repository
	Sensors    Sensors
	FaultLine  FaultLine
	// Tone drives the buzzer; nil runs silently.
	Tone sound.Tone
}

// Scheduler owns the panel state and runs one cycle per watchdog edge.
type Scheduler struct {
	deps  Deps
	state *panel.State

	mode  Mode
	cause error

	// linked is the result of the last exchange, for transition logging.
	linked bool
	// lastPower is the power state logged last.
	lastPower power.State
	// lastActive is the alarm set logged last.
	lastActive [alarm.Count]bool
	// cycles counts completed ticks.
	cycles uint64
}

// New returns a scheduler with a fresh panel in standby.
func New(deps Deps) *Scheduler {
	st := panel.New(deps.Tone)

	return &Scheduler{
		deps:      deps,
		state:     st,
		lastPower: st.Power,
	}
}

// Boot loads the persisted records. Missing records keep their defaults.
func (s *Scheduler) Boot(ctx context.Context) error {
	ctx = logger.WithName(ctx, "cycle")

	minutes, err := s.deps.Store.Load(ctx, records.AliveMinutes)

	switch {
	case err == nil:
		s.state.AliveMinutes = minutes
	case errors.Is(err, records.ErrNotFound):
		// Keep zero.
	default:
		return fmt.Errorf("load alive minutes: %w", err)
	}

	tuning, err := records.LoadTuning(ctx, s.deps.Store, panel.DefaultTuning())
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}

	s.state.Tuning = tuning

	logger.InfoKV(ctx, "Panel booted", "alive_minutes", s.state.AliveMinutes)

	return nil
}

// Run ticks until ctx is done. A fault does not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := s.Tick(ctx); err != nil {
			logger.InfoKV(logger.WithName(ctx, "cycle"), "Control cycle stopped",
				"cycles", s.cycles, "mode", s.mode)

			return nil
		}
	}
}

// Tick runs one cycle. It returns an error only when ctx is done.
func (s *Scheduler) Tick(ctx context.Context) error {
	ctx = logger.WithName(ctx, "cycle")

	if s.mode == Fault {
		return s.faultTick(ctx)
	}

	if err := s.deps.Watchdog.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		s.enterFault(ctx, fmt.Errorf("wait for watchdog: %w", err))

		return nil
	}

	s.deps.Watchdog.Stroke()
	s.exchange(ctx)

	if s.state.Attached {
		if err := s.operate(ctx); err != nil {
			s.enterFault(ctx, err)

			return nil
		}
	}

	s.deps.Display.Render(s.view())

	s.state.Power = s.state.Sequencer.Advance(s.state.Power)
	s.logTransitions(ctx)
	s.cycles++

	return nil
}

// exchange sends the request built from the current state and applies the answer.
func (s *Scheduler) exchange(ctx context.Context) {
	req := controller.NewRequest(s.state)
	if s.state.PlateauSends > 0 {
		s.state.PlateauSends--
	}

	readings, err := s.deps.Controller.Exchange(ctx, req)
	if err != nil {
		if s.linked {
			logger.WarnKV(ctx, "Controller link lost", "error", err)
		}

		s.linked = false

		return
	}

	controller.Apply(s.state, readings)
	s.deps.Watchdog.ResetDeadline()

	if !s.linked {
		logger.InfoKV(ctx, "Controller attached", "error_word", readings.Error)
	}

	s.linked = true
	s.state.Attached = true
}

// operate runs the attached part of the cycle: alive time, sound, buttons and alarms.
func (s *Scheduler) operate(ctx context.Context) error {
	st := s.state

	if st.Sequencer.MinuteDue() {
		st.AliveMinutes++

		if err := s.deps.Store.Save(ctx, records.AliveMinutes, st.AliveMinutes); err != nil {
			logger.ErrorKV(ctx, "Failed to save alive minutes", "error", err, "alive_minutes", st.AliveMinutes)
		}
	}

	st.Sound.Cycle()

	pos, ok, err := s.deps.Buttons.ReadButtons()
	if err != nil {
		return fmt.Errorf("read buttons: %w", err)
	}

	if ok {
		out, err := st.Buttons.Step(pos, st.Power)
		if err != nil {
			return fmt.Errorf("run buttons: %w", err)
		}

		st.Power = out.Power
		if out.Plateau {
			st.PlateauSends = tick.PlateauSends
		}

		st.Buttons.Apply(&st.Values)
	}

	st.Alarms.Run(&st.Values, st.Sense(s.deps.Sensors.LowPower()), st.Power)

	return nil
}

func (s *Scheduler) view() display.View {
	st := s.state

	return display.View{
		Values:       st.Values,
		Alarms:       st.Alarms.Statuses(),
		PowerOff:     st.Alarms.PowerOff(st.Power),
		Blink:        st.Alarms.Blink(),
		Power:        st.Power,
		AliveMinutes: st.AliveMinutes,
		Tone:         st.Sound.ToneOn(),
		ForceBlank:   !st.Attached,
	}
}

func (s *Scheduler) logTransitions(ctx context.Context) {
	if s.state.Power != s.lastPower {
		logger.InfoKV(ctx, "Power state changed", "from", s.lastPower, "to", s.state.Power)
		s.lastPower = s.state.Power
	}

	var active [alarm.Count]bool
	for _, id := range s.state.Alarms.Active() {
		active[id] = true
	}

	if active == s.lastActive {
		return
	}

	names := make([]string, 0, len(active))

	for id, on := range active {
		if on {
			names = append(names, alarm.ID(id).String())
		}
	}

	logger.WarnKV(ctx, "Alarms changed", "active", names)
	s.lastActive = active
}

// enterFault moves the scheduler into its terminal mode.
func (s *Scheduler) enterFault(ctx context.Context, cause error) {
	s.mode = Fault
	s.cause = cause
	s.state.Fault = true

	logger.ErrorKV(ctx, "Machine fault", "error", cause, "cycles", s.cycles)

	s.reportFault(ctx)
}

// faultTick keeps the fault visible and keeps telling the controller.
// The fail-safe deadline no longer matters here.
func (s *Scheduler) faultTick(ctx context.Context) error {
	if err := s.deps.Watchdog.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	s.reportFault(ctx)
	s.cycles++

	return nil
}

func (s *Scheduler) reportFault(ctx context.Context) {
	s.deps.FaultLine.ShutdownMotor()
	s.deps.FaultLine.ShowMachineFault()
	s.state.Alarms.Latch(alarm.MachineFault)

	if _, err := s.deps.Controller.Exchange(ctx, controller.NewRequest(s.state)); err != nil {
		logger.DebugKV(ctx, "Fault notification not delivered", "error", err)
	}
}

// Mode returns the current mode.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// Fault returns the error that moved the scheduler into Fault, or nil.
func (s *Scheduler) Fault() error {
	return s.cause
}

// State exposes the panel state. It must only be used from the goroutine running Tick.
func (s *Scheduler) State() *panel.State {
	return s.state
}

// Cycles returns the number of completed ticks.
func (s *Scheduler) Cycles() uint64 {
	return s.cycles
}
