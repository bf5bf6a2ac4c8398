// Package cycle runs the panel control cycle.
//
// One Scheduler owns all panel state and is its only writer. Each Tick
// waits for the watchdog edge, strokes the watchdog, exchanges with the
// controller and then, once the controller has attached, runs the sound
// ladder, the button registry and the alarm bank in that order before
// refreshing the display and advancing the power state. The first
// invariant violation moves the scheduler into a terminal fault mode.
package cycle
