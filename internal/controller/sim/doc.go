// Package sim is an in-process stand-in for the controller board. It
// answers every request with readings from an idealised patient circuit and
// can inject link failures and controller error words.
package sim
