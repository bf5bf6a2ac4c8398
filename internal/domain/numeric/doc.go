// Package numeric models the operator-visible parameters of the panel.
//
// Each Value pairs the controller's latest reading with the committed
// setpoint and an in-progress edit scratch value.
package numeric
