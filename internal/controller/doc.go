// Package controller defines the request/response exchanged with the
// ventilation controller board once per cycle, and the unit conversions
// between panel units and controller units.
//
// Transports live in the modbus and sim subpackages.
package controller
