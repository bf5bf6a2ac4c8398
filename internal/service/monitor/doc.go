// Package monitor runs the panel-monitor process, which polls a running
// panel-controller and logs what its operator panel shows.
package monitor
