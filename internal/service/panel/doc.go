// Package panel runs the panel-controller process: the control cycle plus
// the monitor gRPC API that exposes its display frames.
package panel
