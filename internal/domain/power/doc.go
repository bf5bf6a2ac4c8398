// Package power holds the panel power state and the sequencer that walks it
// from standby through the boot animation to running.
package power
