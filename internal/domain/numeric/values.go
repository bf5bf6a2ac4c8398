package numeric

// Values is the full parameter set shared by the controller exchange,
// the button registry and the alarm bank.
type Values struct {
	// Pressure is the instantaneous patient pressure, cmH2O.
	Pressure Value
	// PressureMean is the mean pressure over the last breath.
	PressureMean Value
	// PressureMin is the lowest pressure over the last breath.
	PressureMin Value
	// PressurePlateau is the last measured plateau pressure.
	PressurePlateau Value
	// PeakPressure carries the peak pressure limit and the last breath peak.
	PeakPressure Value
	// PeakPressureAverage is the averaged peak pressure used by the alarm.
	PeakPressureAverage Value
	// PEEP carries the PEEP setpoint and the instantaneous PEEP.
	PEEP Value
	// PEEPAverage is the averaged PEEP used by the alarm.
	PEEPAverage Value
	// TidalVolume carries the tidal volume setpoint, mL.
	TidalVolume Value
	// TidalVolumeLast is the tidal volume of the last breath.
	TidalVolumeLast Value
	// MinuteVolume is litres per minute in tenths.
	MinuteVolume Value
	// RespRate carries the upper respiratory rate limit and the measured rate, bpm.
	RespRate Value
	// BackupRate is the mandatory breath rate, bpm.
	BackupRate Value
	// InspiratoryTime is the inspiration time in tenths of a second.
	InspiratoryTime Value
	// FIO2 is the oxygen fraction, percent.
	FIO2 Value
}

// Defaults returns the parameter set a panel starts with.
//
//nolint:mnd // Clinical defaults are easier to read inline.
func Defaults() Values {
	return Values{
		PeakPressure: Value{
			Setpoint:       30,
			EditVal:        30,
			Step:           1,
			Lower:          10,
			Upper:          60,
			ThresholdUpper: 5,
			Mode:           ShowSetpoint,
		},
		PEEP: Value{
			Setpoint:       5,
			EditVal:        5,
			Step:           1,
			Lower:          0,
			Upper:          30,
			ThresholdLower: 3,
			ThresholdUpper: 3,
			Mode:           ShowSetpoint,
		},
		TidalVolume: Value{
			Setpoint: 400,
			EditVal:  400,
			Step:     10,
			Lower:    200,
			Upper:    800,
			Mode:     ShowSetpoint,
		},
		RespRate: Value{
			Setpoint: 30,
			EditVal:  30,
			Step:     1,
			Lower:    10,
			Upper:    60,
			Mode:     ShowValue,
		},
		BackupRate: Value{
			Setpoint: 12,
			EditVal:  12,
			Step:     1,
			Lower:    5,
			Upper:    30,
			Mode:     ShowSetpoint,
		},
		InspiratoryTime: Value{
			Setpoint: 10,
			EditVal:  10,
			Step:     1,
			Lower:    5,
			Upper:    30,
			Mode:     ShowSetpoint,
		},
		FIO2: Value{
			Setpoint:       21,
			EditVal:        21,
			Lower:          21,
			Upper:          100,
			ThresholdLower: 10,
			ThresholdUpper: 10,
			Mode:           ShowValue,
		},
		MinuteVolume: Value{Mode: ShowValue},
	}
}
