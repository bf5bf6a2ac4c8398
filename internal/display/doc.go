// Package display turns panel state into frames of what the operator panel
// shows and publishes the latest frame for readers outside the control cycle.
package display
