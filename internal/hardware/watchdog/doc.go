// Package watchdog provides the cycle edge source, the outgoing liveness
// stroke and the fail-safe deadline that faults the panel when the
// controller stops answering.
package watchdog
