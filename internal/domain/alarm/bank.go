package alarm

import (
	"github.com/oshokin/vent-panel/internal/domain/numeric"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/sound"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// ID names an alarm in the bank.
type ID uint8

const (
	// Disconnect trips when the circuit pressure collapses.
	Disconnect ID = iota
	// PEEP trips when averaged PEEP leaves its band.
	PEEP
	// TidalVolume trips when the last breath misses the tidal volume setpoint.
	TidalVolume
	// PeakPressure trips when averaged peak pressure exceeds its limit.
	PeakPressure
	// RespRate trips when the breath rate leaves the backup..limit range.
	RespRate
	// FIO2 trips when the oxygen fraction leaves its band.
	FIO2
	// LowPower follows the supply sense line.
	LowPower
	// MachineFault follows the fault flag of the panel or the controller.
	MachineFault

	// Count is the number of alarms in the bank.
	Count
)

// String implements fmt.Stringer.
func (id ID) String() string {
	switch id {
	case Disconnect:
		return "disconnect"
	case PEEP:
		return "peep"
	case TidalVolume:
		return "tidal_volume"
	case PeakPressure:
		return "peak_pressure"
	case RespRate:
		return "resp_rate"
	case FIO2:
		return "fio2"
	case LowPower:
		return "low_power"
	case MachineFault:
		return "machine_fault"
	default:
		return "unknown"
	}
}

const (
	// DisconnectCap is the pressure below which the circuit counts as open, cmH2O.
	DisconnectCap = 1
	// HaltHysteresis is how far above PEEP pressure must fall to release a halt, cmH2O.
	HaltHysteresis = 5
	// tidalBandDivisor gives the tidal volume band as a fraction of the setpoint.
	tidalBandDivisor = 10
)

// Sense carries the alarm inputs that do not come from numeric values.
type Sense struct {
	// LowPower is the supply sense line.
	LowPower bool
	// MachineFault is set when the panel or the controller reports a fault.
	MachineFault bool
}

// Bank is the set of panel alarms.
type Bank struct {
	// alarms is indexed by ID.
	alarms [Count]Alarm
	// sound receives the alarm tone.
	sound *sound.Ladder
	// silence counts cycles until a silenced alarm may sound again.
	silence uint32
	// blink is the shared blink counter.
	blink uint32
	// halt is set while the pressure-overshoot interlock holds ventilation.
	halt bool
}

// NewBank returns a bank with every alarm off, driving ladder.
func NewBank(ladder *sound.Ladder) *Bank {
	b := &Bank{sound: ladder}

	times := [Count][2]uint32{
		Disconnect:   {tick.PerSecond * 2, tick.PerSecond * 2},
		PEEP:         {1, tick.PerSecond * 15},
		TidalVolume:  {1, tick.PerSecond * 12},
		PeakPressure: {1, 1},
		RespRate:     {1, 1},
		FIO2:         {tick.PerSecond * 200, tick.PerSecond * 200},
		LowPower:     {1, 1},
		MachineFault: {1, 1},
	}
	for id, t := range times {
		b.alarms[id].TripTime = t[0]
		b.alarms[id].LatchTime = t[1]
	}

	return b
}

// Detect evaluates every alarm against v and reports whether any wants the tone.
func (b *Bank) Detect(v *numeric.Values, sense Sense) bool {
	var tone bool

	run := func(id ID, tripped bool) {
		if b.alarms[id].RunState(tripped, b.blink) {
			tone = true
		}
	}

	run(Disconnect, v.Pressure.Val < DisconnectCap)
	run(PEEP, outside(v.PEEPAverage.Val,
		v.PEEP.Setpoint-v.PEEP.ThresholdLower,
		v.PEEP.Setpoint+v.PEEP.ThresholdUpper))

	band := v.TidalVolume.Setpoint / tidalBandDivisor
	run(TidalVolume, outside(v.TidalVolumeLast.Val, v.TidalVolume.Setpoint-band, v.TidalVolume.Setpoint+band))

	peakLimit := v.PeakPressure.Setpoint + v.PeakPressure.ThresholdUpper
	run(PeakPressure, v.PeakPressureAverage.Val > peakLimit)

	b.interlock(v, peakLimit)

	run(RespRate, outside(v.RespRate.Val, v.BackupRate.Setpoint, v.RespRate.Setpoint))
	run(FIO2, outside(v.FIO2.Val,
		v.FIO2.Setpoint-v.FIO2.ThresholdLower,
		v.FIO2.Setpoint+v.FIO2.ThresholdUpper))
	run(LowPower, sense.LowPower)
	run(MachineFault, sense.MachineFault)

	return tone
}

// interlock holds ventilation while pressure overshoots the peak limit and
// until it falls back near PEEP.
func (b *Bank) interlock(v *numeric.Values, peakLimit int32) {
	switch {
	case v.Pressure.Val > peakLimit:
		b.halt = true
		b.alarms[PEEP].Status = BlinkOn
	case b.halt && v.Pressure.Val < v.PEEP.Setpoint+HaltHysteresis:
		b.halt = false
		b.alarms[PEEP].Status = Off
	}
}

// Silence stops a sounding alarm tone and holds it off for the restart delay.
// Nothing happens when no alarm is sounding.
func (b *Bank) Silence() {
	if !b.sound.IsAlarming() {
		return
	}

	b.silence = tick.AlarmRestartDelay
	b.sound.Stop()
}

// Clear silences the tone and forces every alarm off.
// The interlock halt is left alone: it releases only on pressure recovery.
func (b *Bank) Clear() {
	b.Silence()

	for id := range b.alarms {
		b.alarms[id].Reset()
	}
}

// Run detects alarms, counts down the silence delay and sounds the alarm
// tone while ventilating.
func (b *Bank) Run(v *numeric.Values, sense Sense, state power.State) {
	tone := b.Detect(v, sense)

	if b.silence > 0 {
		b.silence--
	}

	if b.silence == 0 && tone && state == power.On {
		b.sound.Start(sound.Constant)
	}

	b.blink = (b.blink + 1) % tick.BlinkPeriod
}

// Alarm returns a copy of the alarm id.
func (b *Bank) Alarm(id ID) Alarm {
	return b.alarms[id]
}

// Status returns the status of alarm id.
func (b *Bank) Status(id ID) Status {
	return b.alarms[id].Status
}

// Statuses returns the status of every alarm, indexed by ID.
func (b *Bank) Statuses() [Count]Status {
	var out [Count]Status
	for id := range b.alarms {
		out[id] = b.alarms[id].Status
	}

	return out
}

// Active lists the alarms that are not off.
func (b *Bank) Active() []ID {
	var out []ID

	for id := range b.alarms {
		if b.alarms[id].Status != Off {
			out = append(out, ID(id))
		}
	}

	return out
}

// Latch forces alarm id into the latched state.
func (b *Bank) Latch(id ID) {
	b.alarms[id].Status = Latch
}

// PowerOff is the derived standby indicator.
func (b *Bank) PowerOff(state power.State) Status {
	if state == power.Off {
		return Set
	}

	return Off
}

// Halt reports whether the interlock is holding ventilation.
func (b *Bank) Halt() bool {
	return b.halt
}

// Blink returns the shared blink counter.
func (b *Bank) Blink() uint32 {
	return b.blink
}

// SilenceRemaining returns the cycles left before a silenced tone may return.
func (b *Bank) SilenceRemaining() uint32 {
	return b.silence
}

func outside(val, lower, upper int32) bool {
	return val < lower || val > upper
}
