// Package monitor implements the gRPC transport for reading the panel.
//
// The service carries the latest display frame as a google.protobuf.Struct
// and reports panel readiness through the standard gRPC health service.
package monitor
