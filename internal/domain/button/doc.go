// Package button implements the panel's button registry: the per-button
// state machines, the single-active-button arbitration and the numeric edit
// rules the buttons drive.
package button
