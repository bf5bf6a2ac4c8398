package numeric

// DisplayMode selects what a numeric display shows for a Value.
type DisplayMode uint8

const (
	// ShowValue displays the live reading.
	ShowValue DisplayMode = iota
	// ShowSetpoint displays the committed setpoint.
	ShowSetpoint
	// EditAlarm flashes the edit value of an alarm limit.
	EditAlarm
	// EditSetpoint flashes the edit value of a setpoint.
	EditSetpoint
	// EditWithValue flashes the live reading, used when the setpoint is captured from it.
	EditWithValue
)

// String implements fmt.Stringer.
func (m DisplayMode) String() string {
	switch m {
	case ShowValue:
		return "value"
	case ShowSetpoint:
		return "setpoint"
	case EditAlarm:
		return "edit_alarm"
	case EditSetpoint:
		return "edit_setpoint"
	case EditWithValue:
		return "edit_with_value"
	default:
		return "unknown"
	}
}

// Editing reports whether the mode is one of the flashing edit variants.
func (m DisplayMode) Editing() bool {
	return m == EditAlarm || m == EditSetpoint || m == EditWithValue
}

// Value is one operator parameter.
// Val is written only by the controller exchange.
type Value struct {
	// Val is the last reading from the controller.
	Val int32
	// Setpoint is the committed operator value.
	Setpoint int32
	// EditVal is the scratch value of an edit in progress.
	EditVal int32
	// Step is the adjustment increment.
	Step int32
	// Lower bounds EditVal.
	Lower int32
	// Upper bounds EditVal.
	Upper int32
	// ThresholdLower is the alarm band below the setpoint.
	ThresholdLower int32
	// ThresholdUpper is the alarm band above the setpoint.
	ThresholdUpper int32
	// Mode selects what the display shows.
	Mode DisplayMode
}

// Increment raises EditVal by one step, clamped to Upper.
func (v *Value) Increment() {
	v.EditVal = min(v.EditVal+v.Step, v.Upper)
}

// Decrement lowers EditVal by one step, clamped to Lower.
func (v *Value) Decrement() {
	v.EditVal = max(v.EditVal-v.Step, v.Lower)
}

// Prime copies the setpoint into the scratch value before an edit starts.
func (v *Value) Prime() {
	v.EditVal = v.Setpoint
}

// Commit stores the scratch value as the new setpoint.
func (v *Value) Commit() {
	v.Setpoint = v.EditVal
}

// BeginEdit switches the display to the flashing variant of its current mode.
func (v *Value) BeginEdit() {
	if v.Mode == ShowValue || v.Mode == EditAlarm {
		v.Mode = EditAlarm

		return
	}

	v.Mode = EditSetpoint
}

// EndEdit reverts the display from a flashing variant to the normal one.
func (v *Value) EndEdit() {
	if v.Mode == ShowValue || v.Mode == EditAlarm {
		v.Mode = ShowValue

		return
	}

	v.Mode = ShowSetpoint
}

// Shown returns the number the display should show for the current mode.
func (v *Value) Shown() int32 {
	switch v.Mode {
	case ShowValue, EditWithValue:
		return v.Val
	case ShowSetpoint:
		return v.Setpoint
	default:
		return v.EditVal
	}
}
