package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigEnv names the environment variable holding an explicit config file path
	ConfigEnv = "PSU_EXPORTER_CONFIG"

	DefaultSerialPort       = "/dev/ttyUSB0"
	DefaultBaudRate         = 115200
	DefaultExporterPort     = 8000
	DefaultStalenessTimeout = 10
	DefaultSweepInterval    = 5
	DefaultReconnectDelay   = 5
	DefaultReadTimeout      = 1
	DefaultLogLevel         = string(LogLevelInfo)

	configName = "psu-exporter"
	configType = "toml"
	configDir  = "/etc"
)

type Config struct {
	SerialPort       string `mapstructure:"serial_port"`
	BaudRate         int    `mapstructure:"baud_rate"`
	ExporterPort     int    `mapstructure:"exporter_port"`
	StalenessTimeout int    `mapstructure:"staleness_timeout"`
	SweepInterval    int    `mapstructure:"sweep_interval"`
	ReconnectDelay   int    `mapstructure:"reconnect_delay"`
	ReadTimeout      int    `mapstructure:"read_timeout"`
	LogLevel         string `mapstructure:"log_level"`
	PIDFile          string `mapstructure:"pid_file"`
	SelfMetrics      bool   `mapstructure:"self_metrics"`
}

var _ Provider = (*Config)(nil)

type setting struct {
	key   string
	flag  string
	value any
	usage string
}

func settings() []setting {
	return []setting{
		{"serial_port", "serial-port", DefaultSerialPort, "Serial device of the PSU controller"},
		{"baud_rate", "baud-rate", DefaultBaudRate, "Serial line speed"},
		{"exporter_port", "exporter-port", DefaultExporterPort, "Port of the Prometheus metrics endpoint"},
		{"staleness_timeout", "staleness-timeout", DefaultStalenessTimeout, "Seconds without data before a PSU's metrics are removed"},
		{"sweep_interval", "sweep-interval", DefaultSweepInterval, "Seconds between stale PSU checks"},
		{"reconnect_delay", "reconnect-delay", DefaultReconnectDelay, "Seconds to wait before reconnecting the serial port"},
		{"read_timeout", "read-timeout", DefaultReadTimeout, "Serial read timeout in seconds"},
		{"log_level", "log-level", DefaultLogLevel, "Log level (debug, info, warning, error)"},
		{"pid_file", "pid-file", filepath.Join(os.TempDir(), configName+".pid"), "PID file path"},
		{"self_metrics", "self-metrics", true, "Export psu_exporter_* self metrics"},
	}
}

func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{args: os.Args[1:]}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	v := viper.New()
	flags := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	configFlag := flags.String("config", "", "Path to the TOML config file")

	// Define flags, defaults and environment bindings
	for _, s := range settings() {
		v.SetDefault(s.key, s.value)

		switch def := s.value.(type) {
		case string:
			flags.String(s.flag, def, s.usage)
		case int:
			flags.Int(s.flag, def, s.usage)
		case bool:
			flags.Bool(s.flag, def, s.usage)
		}

		if err := v.BindPFlag(s.key, flags.Lookup(s.flag)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}

		envNames := []string{s.key, strings.ToUpper(s.key)}
		if o.envPrefix != "" {
			envNames = []string{s.key, strings.ToUpper(o.envPrefix + "_" + s.key), strings.ToUpper(s.key)}
		}
		if err := v.BindEnv(envNames...); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	// Parse flags
	if err := flags.Parse(o.args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Load configuration from file
	path := o.configPath
	if *configFlag != "" {
		path = *configFlag
	}
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Unmarshal the configuration
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.SerialPort == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "serial_port must not be empty")
	}
	if c.BaudRate <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.BaudRate)
	}
	if c.ExporterPort < 1 || c.ExporterPort > 65535 {
		return errFactory.WithData(errors.ErrInvalidPort, c.ExporterPort)
	}

	intervals := []struct {
		name  string
		value int
	}{
		{"staleness_timeout", c.StalenessTimeout},
		{"sweep_interval", c.SweepInterval},
		{"reconnect_delay", c.ReconnectDelay},
		{"read_timeout", c.ReadTimeout},
	}
	for _, interval := range intervals {
		if interval.value <= 0 {
			return errFactory.WithData(errors.ErrInvalidInterval, interval.name+"="+strconv.Itoa(interval.value))
		}
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func (c *Config) GetSerialPort() string {
	return c.SerialPort
}

func (c *Config) GetBaudRate() int {
	return c.BaudRate
}

func (c *Config) GetExporterPort() int {
	return c.ExporterPort
}

func (c *Config) GetStalenessTimeout() time.Duration {
	return seconds(c.StalenessTimeout)
}

func (c *Config) GetSweepInterval() time.Duration {
	return seconds(c.SweepInterval)
}

func (c *Config) GetReconnectDelay() time.Duration {
	return seconds(c.ReconnectDelay)
}

func (c *Config) GetReadTimeout() time.Duration {
	return seconds(c.ReadTimeout)
}

func (c *Config) GetLogLevel() string {
	return c.LogLevel
}

func (c *Config) GetPIDFile() string {
	return c.PIDFile
}

func (c *Config) IsSelfMetricsEnabled() bool {
	return c.SelfMetrics
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
