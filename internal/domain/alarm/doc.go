// Package alarm implements the panel's alarm bank.
//
// Every monitored condition runs through the same trip/latch state machine.
// The bank also owns the pressure-overshoot interlock, the silence countdown
// and the shared blink counter that drives blinking alarms and edit flashing.
package alarm
