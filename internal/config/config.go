package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by panel-controller and panel-monitor.
type Config struct {
	// MonitorAddress is the gRPC address of the panel monitor API.
	MonitorAddress string `yaml:"monitor_addr"`
	// RecordsFile is the path to the JSON file holding persisted records.
	RecordsFile string `yaml:"records_file"`
	// TickPeriod is the length of one control cycle.
	TickPeriod time.Duration `yaml:"tick_period"`
	// FailSafeTimeout is how long the panel runs without a controller answer before faulting.
	FailSafeTimeout time.Duration `yaml:"fail_safe_timeout"`
	// Timeout is the duration for monitor RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of emitted log lines.
	LogLevel string `yaml:"log_level"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format,omitempty"`
	// Controller describes the link to the controller board.
	Controller Controller `yaml:"controller"`
	// Simulation configures the bench hardware used with the simulated controller.
	Simulation Simulation `yaml:"simulation"`
}

// Controller describes the link to the controller board.
type Controller struct {
	// Transport is one of TransportSimulated, TransportModbusRTU or TransportModbusTCP.
	Transport string `yaml:"transport"`
	// Address is a serial device for RTU or host:port for TCP.
	Address string `yaml:"address,omitempty"`
	// BaudRate is the serial line speed.
	BaudRate int `yaml:"baud_rate,omitempty"`
	// DataBits is the serial character size.
	DataBits int `yaml:"data_bits,omitempty"`
	// Parity is N, E or O.
	Parity string `yaml:"parity,omitempty"`
	// StopBits is 1 or 2.
	StopBits int `yaml:"stop_bits,omitempty"`
	// SlaveID is the controller unit id.
	SlaveID uint8 `yaml:"slave_id,omitempty"`
	// Timeout bounds one controller transaction.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Simulation configures bench inputs.
type Simulation struct {
	// LowPower holds the low-power sense line asserted.
	LowPower bool `yaml:"low_power"`
	// Presses is a script of button presses replayed from boot.
	Presses []Press `yaml:"presses,omitempty"`
}

// Press is one scripted button press.
type Press struct {
	// Button is the button name, e.g. set_peep or adjust_up.
	Button string `yaml:"button"`
	// At is the cycle at which the press starts.
	At uint32 `yaml:"at"`
	// Hold is the number of cycles the button stays down.
	Hold uint32 `yaml:"hold"`
}

// Controller transports.
const (
	TransportSimulated = "sim"
	TransportModbusRTU = "modbus-rtu"
	TransportModbusTCP = "modbus-tcp"
)

const (
	// DefaultConfigFilename is the default filename for panel settings.
	DefaultConfigFilename = "vent-panel-settings.yaml"

	// DefaultRecordsFilename is the default filename for persisted records.
	DefaultRecordsFilename = "vent-panel-records.json"

	// DefaultMonitorAddress is where the monitor API listens by default.
	DefaultMonitorAddress = "127.0.0.1:50070"

	// DefaultTickPeriod is the control cycle length.
	DefaultTickPeriod = 20 * time.Millisecond

	// DefaultFailSafeTimeout is the controller silence tolerated before faulting.
	DefaultFailSafeTimeout = 10 * time.Second

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultControllerTimeout bounds one controller transaction; it must fit in a cycle.
	DefaultControllerTimeout = 15 * time.Millisecond

	// DefaultBaudRate is the controller serial speed.
	DefaultBaudRate = 115200

	// DefaultFilePermissions is the default file permission for settings and records.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownTransport is returned for an unsupported controller transport.
	errUnknownTransport = errors.New("unknown controller transport")
	// errControllerAddressRequired is returned when a hardware transport has no address.
	errControllerAddressRequired = errors.New("controller address must be provided")
	// errBadParity is returned when parity is not N, E or O.
	errBadParity = errors.New("parity must be N, E or O")
	// errEmptyPress is returned for a scripted press without a button or duration.
	errEmptyPress = errors.New("scripted press needs a button and a hold")
	// errTickTooLong is returned when the controller timeout cannot fit in a cycle.
	errTickTooLong = errors.New("controller timeout exceeds tick period")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills defaults for optional fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.MonitorAddress == "" {
		settings.MonitorAddress = DefaultMonitorAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.MonitorAddress); err != nil {
		return fmt.Errorf("invalid monitor address: %w", err)
	}

	if settings.RecordsFile == "" {
		settings.RecordsFile = DefaultRecordsFilename
	}

	if settings.TickPeriod <= 0 {
		settings.TickPeriod = DefaultTickPeriod
	}

	if settings.FailSafeTimeout <= 0 {
		settings.FailSafeTimeout = DefaultFailSafeTimeout
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if err := validateController(&settings.Controller, settings.TickPeriod); err != nil {
		return err
	}

	for i, p := range settings.Simulation.Presses {
		if p.Button == "" || p.Hold == 0 {
			return fmt.Errorf("press %d: %w", i, errEmptyPress)
		}
	}

	return nil
}

func validateController(c *Controller, tickPeriod time.Duration) error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = TransportSimulated
	}

	switch c.Transport {
	case TransportSimulated:
		return nil
	case TransportModbusRTU, TransportModbusTCP:
	default:
		return fmt.Errorf("%q: %w", c.Transport, errUnknownTransport)
	}

	if c.Address == "" {
		return errControllerAddressRequired
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultControllerTimeout
	}

	if c.Timeout > tickPeriod {
		return fmt.Errorf("%s > %s: %w", c.Timeout, tickPeriod, errTickTooLong)
	}

	if c.SlaveID == 0 {
		c.SlaveID = 1
	}

	if c.Transport == TransportModbusTCP {
		if _, _, err := net.SplitHostPort(c.Address); err != nil {
			return fmt.Errorf("invalid controller address: %w", err)
		}

		return nil
	}

	if c.BaudRate <= 0 {
		c.BaudRate = DefaultBaudRate
	}

	if c.DataBits <= 0 {
		c.DataBits = 8
	}

	if c.StopBits <= 0 {
		c.StopBits = 1
	}

	c.Parity = strings.ToUpper(c.Parity)
	if c.Parity == "" {
		c.Parity = "N"
	}

	if c.Parity != "N" && c.Parity != "E" && c.Parity != "O" {
		return errBadParity
	}

	return nil
}
