package modbus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/oshokin/vent-panel/internal/controller"
)

// Transport names accepted in Config.Transport.
const (
	TransportRTU = "modbus-rtu"
	TransportTCP = "modbus-tcp"
)

// Config describes the link to the controller board.
type Config struct {
	// Transport is TransportRTU or TransportTCP.
	Transport string
	// Address is a serial device path for RTU or host:port for TCP.
	Address string
	// BaudRate is the serial line speed.
	BaudRate int
	// DataBits is the serial character size.
	DataBits int
	// Parity is "N", "E" or "O".
	Parity string
	// StopBits is 1 or 2.
	StopBits int
	// SlaveID is the controller unit id.
	SlaveID byte
	// Timeout bounds one Modbus transaction.
	Timeout time.Duration
}

var (
	// errAddressRequired is returned when no device or endpoint is configured.
	errAddressRequired = errors.New("controller address required")
	// errUnknownTransport is returned for an unsupported transport name.
	errUnknownTransport = errors.New("unknown controller transport")
)

// registers is the part of modbus.Client the exchange uses.
type registers interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// connection is a goburrow client handler that can be opened and closed.
type connection interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Client exchanges requests with the controller board.
// It serializes transactions because Close may race with Exchange.
type Client struct {
	mu      sync.Mutex
	handler connection
	regs    registers
}

// Dial opens the configured link.
func Dial(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, errAddressRequired
	}

	var h connection

	switch strings.ToLower(cfg.Transport) {
	case TransportRTU:
		rtu := modbus.NewRTUClientHandler(cfg.Address)
		rtu.BaudRate = cfg.BaudRate
		rtu.DataBits = cfg.DataBits
		rtu.Parity = cfg.Parity
		rtu.StopBits = cfg.StopBits
		rtu.SlaveId = cfg.SlaveID
		rtu.Timeout = cfg.Timeout
		h = rtu
	case TransportTCP:
		tcp := modbus.NewTCPClientHandler(cfg.Address)
		tcp.SlaveId = cfg.SlaveID
		tcp.Timeout = cfg.Timeout
		h = tcp
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Transport, errUnknownTransport)
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Address, err)
	}

	return &Client{
		handler: h,
		regs:    modbus.NewClient(h),
	}, nil
}

// Exchange writes the request block and reads the readings block.
func (c *Client) Exchange(ctx context.Context, req controller.Request) (controller.Readings, error) {
	if err := ctx.Err(); err != nil {
		return controller.Readings{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.regs == nil {
		return controller.Readings{}, controller.ErrNotAttached
	}

	out := encodeRequest(&req)
	if _, err := c.regs.WriteMultipleRegisters(requestAddress, uint16(len(out)), packRegisters(out)); err != nil {
		return controller.Readings{}, fmt.Errorf("write request: %w", err)
	}

	data, err := c.regs.ReadInputRegisters(readingsAddress, ReadingsRegisters)
	if err != nil {
		return controller.Readings{}, fmt.Errorf("read readings: %w", err)
	}

	readings, err := decodeReadings(unpackRegisters(data))
	if err != nil {
		return controller.Readings{}, fmt.Errorf("decode readings: %w", err)
	}

	return readings, nil
}

// Close releases the link.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.regs = nil

	if c.handler == nil {
		return nil
	}

	return c.handler.Close()
}
