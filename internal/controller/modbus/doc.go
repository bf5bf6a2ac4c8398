// Package modbus exchanges panel requests with the controller board over
// Modbus RTU (serial) or Modbus TCP.
//
// The request is written as a block of holding registers starting at zero and
// the readings are read back as a block of input registers starting at zero.
// Every int32 occupies two registers, high word first.
package modbus
