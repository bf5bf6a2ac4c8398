// Package panelio adapts the panel's raw inputs and outputs: button
// sampling with debounce and stuck detection, a scripted bench source,
// the low-power sense line and the buzzer.
package panelio
