package button

import "errors"

// ID is a primary panel button.
type ID uint8

// Primary buttons in press-priority order.
const (
	SetFIO2 ID = iota
	SetPEEP
	SetTidalVolume
	SetBackupRate
	SetPeakPressure
	SetInspiratoryTime
	PowerDown
	AlarmSilence
	GetPlateau

	// NumPrimary is the number of primary buttons.
	NumPrimary
)

// String implements fmt.Stringer.
func (id ID) String() string {
	switch id {
	case SetFIO2:
		return "set_fio2"
	case SetPEEP:
		return "set_peep"
	case SetTidalVolume:
		return "set_tidal_volume"
	case SetBackupRate:
		return "set_backup_rate"
	case SetPeakPressure:
		return "set_peak_pressure"
	case SetInspiratoryTime:
		return "set_inspiratory_time"
	case PowerDown:
		return "power_down"
	case AlarmSilence:
		return "alarm_silence"
	case GetPlateau:
		return "get_plateau"
	default:
		return "unknown"
	}
}

// AdjustID is an adjustment button.
type AdjustID uint8

// Adjustment buttons in press-priority order.
const (
	AdjustDown AdjustID = iota
	AdjustUp

	// NumAdjust is the number of adjustment buttons.
	NumAdjust
)

// String implements fmt.Stringer.
func (id AdjustID) String() string {
	switch id {
	case AdjustDown:
		return "adjust_down"
	case AdjustUp:
		return "adjust_up"
	default:
		return "unknown"
	}
}

// Type is the interaction style of a button.
type Type uint8

const (
	// Toggle opens an edit on release and closes it on the next press.
	Toggle Type = iota
	// PressToHold opens an edit only after a full hold.
	PressToHold
	// Momentary fires once on release.
	Momentary
	// TogglePressToHold toggles on a short press and opens a second edit after a full hold.
	TogglePressToHold
)

// State is the state of a single button.
type State uint8

const (
	// Idle is the resting state.
	Idle State = iota
	// Holding counts down a press-to-hold.
	Holding
	// Modify is an open edit.
	Modify
	// PressToModify is the open edit reached through a full hold.
	PressToModify
	// WaitReleaseModify opens Modify on release.
	WaitReleaseModify
	// WaitReleasePressToModify opens PressToModify on release.
	WaitReleasePressToModify
	// WaitReleaseIdle returns to Idle on release.
	WaitReleaseIdle
	// MomentaryDone is a completed momentary press waiting to be consumed.
	MomentaryDone
	// Timeout is reserved and never entered.
	Timeout
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	case Modify:
		return "modify"
	case PressToModify:
		return "press_to_modify"
	case WaitReleaseModify:
		return "wait_release_modify"
	case WaitReleasePressToModify:
		return "wait_release_press_to_modify"
	case WaitReleaseIdle:
		return "wait_release_idle"
	case MomentaryDone:
		return "momentary_done"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Editing reports whether the state is an open edit.
func (s State) Editing() bool {
	return s == Modify || s == PressToModify
}

// Button is one button state machine.
type Button struct {
	// Type is the interaction style.
	Type Type
	// State is the current state.
	State State
	// Count is the remaining hold cycles.
	Count uint32
	// Wait is the hold length for press-to-hold types.
	Wait uint32
}

// Positions is one debounced sample of the panel buttons.
type Positions struct {
	// Primary is indexed by ID.
	Primary [NumPrimary]bool
	// Adjust is indexed by AdjustID.
	Adjust [NumAdjust]bool
}

// Any reports whether any button is pressed.
func (p Positions) Any() bool {
	for _, pressed := range p.Primary {
		if pressed {
			return true
		}
	}

	for _, pressed := range p.Adjust {
		if pressed {
			return true
		}
	}

	return false
}

// Equal reports whether two samples agree.
func (p Positions) Equal(other Positions) bool {
	return p == other
}

// Active is an optional button id.
type Active[T comparable] struct {
	id  T
	set bool
}

// Get returns the id and whether one is set.
func (a Active[T]) Get() (T, bool) {
	return a.id, a.set
}

// Is reports whether id is the active one.
func (a Active[T]) Is(id T) bool {
	return a.set && a.id == id
}

// None reports whether nothing is active.
func (a Active[T]) None() bool {
	return !a.set
}

// claim makes id active. Claiming while another id is active is refused.
func (a *Active[T]) claim(id T) error {
	if a.set && a.id != id {
		return ErrAlreadyActive
	}

	a.id = id
	a.set = true

	return nil
}

func (a *Active[T]) clear() {
	var zero T

	a.id = zero
	a.set = false
}

var (
	// ErrStuckButton means a button is not idle while no button should be active.
	ErrStuckButton = errors.New("button stuck outside idle")
	// ErrUnreachableState means a button machine received an event its state cannot take.
	ErrUnreachableState = errors.New("button in unreachable state")
	// ErrAlreadyActive means a second button tried to become active.
	ErrAlreadyActive = errors.New("another button is already active")
)
