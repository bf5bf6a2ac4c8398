// Package tick holds the panel's timing constants.
//
// The panel runs at a fixed cycle rate and every duration in the domain
// packages is counted in cycles, never in wall-clock time.
package tick
