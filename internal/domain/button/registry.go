package button

import (
	"fmt"

	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/sound"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// Outcome is what a registry step asks of the rest of the panel.
type Outcome struct {
	// Power is the power state after the step.
	Power power.State
	// Plateau is set when a plateau measurement was requested.
	Plateau bool
}

// Registry holds every button machine and the active-button arbitration.
type Registry struct {
	// primary is indexed by ID.
	primary [NumPrimary]Button
	// adjust is indexed by AdjustID.
	adjust [NumAdjust]Button
	// active is the primary button currently in use.
	active Active[ID]
	// activeAdjust is the adjustment button currently in use.
	activeAdjust Active[AdjustID]
	// editTimeout counts release cycles since the last press.
	editTimeout uint32

	sound  *sound.Ladder
	alarms *alarm.Bank
}

// NewRegistry returns a registry with every button idle.
func NewRegistry(ladder *sound.Ladder, alarms *alarm.Bank) *Registry {
	r := &Registry{
		sound:  ladder,
		alarms: alarms,
	}

	for id := range r.primary {
		r.primary[id].Type = Toggle
	}

	r.primary[SetBackupRate] = Button{Type: TogglePressToHold, Wait: tick.BackupRateHold}
	r.primary[PowerDown] = Button{Type: TogglePressToHold, Wait: tick.PowerOffHold}
	r.primary[AlarmSilence] = Button{Type: TogglePressToHold, Wait: tick.AlarmClearHold}
	r.primary[GetPlateau] = Button{Type: Momentary}

	for id := range r.adjust {
		r.adjust[id].Type = Momentary
	}

	return r
}

// Step runs one cycle of button processing for a debounced sample.
func (r *Registry) Step(pos Positions, state power.State) (Outcome, error) {
	out := Outcome{Power: state}

	if pos.Any() {
		r.editTimeout = 0

		if err := r.press(pos, state); err != nil {
			return out, err
		}
	} else {
		if err := r.release(); err != nil {
			return out, err
		}

		r.editTimeout++
	}

	r.special(&out)

	return out, nil
}

// press dispatches the highest-priority pressed button.
func (r *Registry) press(pos Positions, state power.State) error {
	for id := range NumPrimary {
		if pos.Primary[id] {
			return r.pressPrimary(id, state)
		}
	}

	for id := range NumAdjust {
		if pos.Adjust[id] {
			return r.pressAdjust(id)
		}
	}

	return nil
}

func (r *Registry) actionable(id ID, state power.State) bool {
	powered := state == power.On || id == AlarmSilence || id == PowerDown
	free := r.active.None() || r.active.Is(id)

	return powered && free && r.activeAdjust.None()
}

func (r *Registry) adjustActionable() bool {
	id, ok := r.active.Get()
	if !ok || !r.activeAdjust.None() {
		return false
	}

	switch id {
	case SetBackupRate, SetPeakPressure, SetPEEP, SetTidalVolume, SetInspiratoryTime:
		return r.primary[id].State.Editing()
	default:
		return false
	}
}

func (r *Registry) pressPrimary(id ID, state power.State) error {
	if !r.actionable(id, state) {
		return nil
	}

	b := &r.primary[id]

	switch b.State {
	case Idle:
		if err := r.active.claim(id); err != nil {
			return fmt.Errorf("press %s: %w", id, err)
		}

		switch b.Type {
		case Toggle:
			b.State = WaitReleaseModify
		case Momentary:
			b.State = WaitReleaseIdle
		case PressToHold, TogglePressToHold:
			b.State = Holding
			b.Count = b.Wait
		}
	case Holding:
		if b.Count > 0 {
			b.Count--
		}

		if b.Count > 0 {
			return nil
		}

		if b.Type == PressToHold {
			b.State = WaitReleaseModify
		} else {
			b.State = WaitReleasePressToModify
		}

		r.sound.Start(sound.Beep)
	case Modify, PressToModify:
		b.State = WaitReleaseIdle
	case WaitReleaseModify, WaitReleasePressToModify, WaitReleaseIdle:
	default:
		return fmt.Errorf("press %s in %s: %w", id, b.State, ErrUnreachableState)
	}

	return nil
}

func (r *Registry) pressAdjust(id AdjustID) error {
	if !r.adjustActionable() {
		return nil
	}

	b := &r.adjust[id]

	switch b.State {
	case Idle:
		if err := r.activeAdjust.claim(id); err != nil {
			return fmt.Errorf("press %s: %w", id, err)
		}

		b.State = WaitReleaseIdle
	case WaitReleaseIdle:
	default:
		return fmt.Errorf("press %s in %s: %w", id, b.State, ErrUnreachableState)
	}

	return nil
}

// release runs when no button is pressed.
func (r *Registry) release() error {
	if id, ok := r.activeAdjust.Get(); ok {
		r.adjust[id].State = MomentaryDone
		r.activeAdjust.clear()

		return nil
	}

	id, ok := r.active.Get()
	if !ok {
		return r.checkIdle()
	}

	b := &r.primary[id]

	switch b.State {
	case Holding:
		if b.Type == TogglePressToHold {
			b.State = Modify
			r.sound.Start(sound.Beep)

			return nil
		}

		b.State = Idle
		r.active.clear()
	case WaitReleaseModify:
		b.State = Modify
		r.sound.Start(sound.Beep)
	case WaitReleasePressToModify:
		b.State = PressToModify
		r.sound.Start(sound.Beep)
	case WaitReleaseIdle:
		if b.Type == Momentary {
			b.State = MomentaryDone
		} else {
			b.State = Idle
		}

		r.sound.Start(sound.Beep)
		r.active.clear()
	case Modify, PressToModify:
		if r.editTimeout >= tick.EditTimeout {
			b.State = Idle
			r.active.clear()
			r.sound.Start(sound.TwoBeep)
		}
	default:
		return fmt.Errorf("release %s in %s: %w", id, b.State, ErrUnreachableState)
	}

	return nil
}

func (r *Registry) checkIdle() error {
	for id := range NumPrimary {
		if r.primary[id].State != Idle {
			return fmt.Errorf("%s is %s: %w", id, r.primary[id].State, ErrStuckButton)
		}
	}

	for id := range NumAdjust {
		if r.adjust[id].State != Idle {
			return fmt.Errorf("%s is %s: %w", id, r.adjust[id].State, ErrStuckButton)
		}
	}

	return nil
}

// special applies the side effects of the power, alarm and plateau buttons.
func (r *Registry) special(out *Outcome) {
	pd := &r.primary[PowerDown]

	switch pd.State {
	case Modify:
		if out.Power == power.Off {
			out.Power = power.Powering
			r.sound.Start(sound.Beep)
		}

		pd.State = Idle
		r.clearActive(PowerDown)
	case WaitReleasePressToModify:
		if out.Power == power.On {
			out.Power = power.Off
			r.sound.Start(sound.Constant)
		}

		pd.State = WaitReleaseIdle
	}

	as := &r.primary[AlarmSilence]

	switch as.State {
	case Modify:
		r.alarms.Silence()

		as.State = Idle
		r.clearActive(AlarmSilence)
	case WaitReleasePressToModify:
		r.alarms.Clear()

		as.State = WaitReleaseIdle
	}

	gp := &r.primary[GetPlateau]
	if gp.State == MomentaryDone {
		out.Plateau = true
		gp.State = Idle
	}
}

func (r *Registry) clearActive(id ID) {
	if r.active.Is(id) {
		r.active.clear()
	}
}

// Button returns a copy of primary button id.
func (r *Registry) Button(id ID) Button {
	return r.primary[id]
}

// Adjust returns a copy of adjustment button id.
func (r *Registry) Adjust(id AdjustID) Button {
	return r.adjust[id]
}

// Active returns the active primary button, if any.
func (r *Registry) Active() (ID, bool) {
	return r.active.Get()
}

// ActiveAdjust returns the active adjustment button, if any.
func (r *Registry) ActiveAdjust() (AdjustID, bool) {
	return r.activeAdjust.Get()
}
