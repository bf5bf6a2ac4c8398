package button

import "github.com/oshokin/vent-panel/internal/domain/numeric"

// Apply runs the numeric edit rules for the current button states.
// It is called once per cycle after Step.
func (r *Registry) Apply(v *numeric.Values) {
	v.PEEP.Mode = numeric.ShowSetpoint
	v.InspiratoryTime.Mode = numeric.ShowSetpoint
	v.TidalVolume.Mode = numeric.ShowSetpoint
	v.PeakPressure.Mode = numeric.ShowSetpoint

	r.edit(r.primary[SetPEEP].State, &v.PEEP)
	r.edit(r.primary[SetInspiratoryTime].State, &v.InspiratoryTime)
	r.edit(r.primary[SetTidalVolume].State, &v.TidalVolume)
	r.edit(r.primary[SetPeakPressure].State, &v.PeakPressure)
	r.editBackupRate(v)
	editFIO2(r.primary[SetFIO2].State, &v.FIO2)

	switch {
	case r.primary[SetPEEP].State == Modify && v.PEEP.EditVal > v.PeakPressure.Setpoint:
		v.PEEP.EditVal = v.PeakPressure.Setpoint
	case r.primary[SetPeakPressure].State == Modify && v.PeakPressure.EditVal < v.PEEP.Setpoint:
		v.PeakPressure.EditVal = v.PEEP.Setpoint
	}
}

func (r *Registry) edit(state State, v *numeric.Value) {
	switch state {
	case Modify:
		v.BeginEdit()
		r.consumeAdjust(v)
	case WaitReleaseModify:
		v.Prime()
	case WaitReleaseIdle:
		v.EndEdit()
		v.Commit()
	default:
	}
}

// editBackupRate drives the backup rate on a short press and the resp rate
// limit on a full hold, both from the same button.
func (r *Registry) editBackupRate(v *numeric.Values) {
	v.RespRate.Mode = numeric.ShowValue
	v.BackupRate.Mode = numeric.ShowSetpoint

	switch r.primary[SetBackupRate].State {
	case Holding:
		// An early release opens the backup rate edit without a priming state.
		v.BackupRate.Prime()
		v.RespRate.Prime()
	case Modify:
		r.edit(Modify, &v.BackupRate)
	case PressToModify:
		r.edit(Modify, &v.RespRate)
	case WaitReleaseModify:
		v.BackupRate.Prime()
	case WaitReleasePressToModify:
		v.RespRate.Prime()
	case WaitReleaseIdle:
		v.BackupRate.Commit()
		v.RespRate.Commit()
	default:
	}
}

// editFIO2 captures the FIO2 setpoint from the live reading.
func editFIO2(state State, v *numeric.Value) {
	v.Mode = numeric.ShowValue

	switch state {
	case Modify:
		v.Mode = numeric.EditWithValue
	case WaitReleaseIdle:
		v.Setpoint = v.Val
		v.EditVal = v.Val
	default:
	}
}

func (r *Registry) consumeAdjust(v *numeric.Value) {
	switch {
	case r.adjust[AdjustUp].State == MomentaryDone:
		v.Increment()
		r.adjust[AdjustUp].State = Idle
	case r.adjust[AdjustDown].State == MomentaryDone:
		v.Decrement()
		r.adjust[AdjustDown].State = Idle
	}
}
