// Package sound implements the panel's self-decaying tone sequencer.
package sound
