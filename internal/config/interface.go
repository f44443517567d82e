package config

import "time"

// Provider defines the interface for accessing configuration values
// All configuration values are immutable after loading
type Provider interface {
	// GetSerialPort returns the serial device the PSU controller is attached to
	GetSerialPort() string

	// GetBaudRate returns the serial line speed
	GetBaudRate() int

	// GetExporterPort returns the TCP port of the metrics endpoint
	GetExporterPort() int

	// GetStalenessTimeout returns how long a PSU may stay silent before eviction
	GetStalenessTimeout() time.Duration

	// GetSweepInterval returns how often stale PSUs are looked for
	GetSweepInterval() time.Duration

	// GetReconnectDelay returns the fixed delay between connection attempts
	GetReconnectDelay() time.Duration

	// GetReadTimeout returns the serial read poll timeout
	GetReadTimeout() time.Duration

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// GetPIDFile returns the path of the single-instance PID file
	GetPIDFile() string

	// IsSelfMetricsEnabled returns whether exporter self-metrics are exported
	IsSelfMetricsEnabled() bool
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
	args       []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix additionally accepts prefixed environment variables,
// e.g. PSU_SERIAL_PORT for prefix "PSU". Prefixed variables win.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithArgs specifies the command line arguments to parse
// Default is os.Args[1:]
func WithArgs(args []string) Option {
	return func(o *options) error {
		o.args = args
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
