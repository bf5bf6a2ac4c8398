package tick

import "time"

// PerSecond is the fixed cycle rate of the panel.
const PerSecond = 50

// Period is the wall-clock length of one cycle.
const Period = time.Second / PerSecond

const (
	// PerMinute is the divisor used to accumulate alive minutes.
	PerMinute = PerSecond * 60

	// AlarmRestartDelay is how long a silenced alarm stays quiet.
	AlarmRestartDelay = PerSecond * 60
	// AlarmClearHold is the ALARM_SILENCE hold time that clears all alarms.
	AlarmClearHold = PerSecond * 3
	// BackupRateHold is the BUR hold time that switches to the resp-rate edit.
	BackupRateHold = PerSecond * 3
	// PowerOffHold is the POWER_DOWN hold time that turns ventilation off.
	PowerOffHold = PerSecond * 5
	// PoweringOnTime is the length of the boot animation.
	PoweringOnTime = PerSecond * 10
	// EditTimeout is how many idle cycles an open edit survives.
	EditTimeout = PerSecond * 60

	// BlinkPeriod is the modulus of the shared blink counter.
	BlinkPeriod = PerSecond / 2
	// BlinkOff is the counter value from which blinking items are dark.
	BlinkOff = PerSecond / 4

	// BeepDuration is the length of one beep or one silence gap.
	BeepDuration = PerSecond / 10

	// PlateauSends is how many exchanges carry a plateau request.
	PlateauSends = 3

	// ButtonStuck is how long a button may be held before it is reported stuck.
	ButtonStuck = PerSecond * 60
)

// Duration converts a cycle count to wall-clock time.
func Duration(cycles uint32) time.Duration {
	return time.Duration(cycles) * Period
}
