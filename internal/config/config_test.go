package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/config"
	"codeberg.org/mutker/psu-exporter/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "psu-exporter.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
serial_port = "/dev/ttyACM1"
baud_rate = 9600
exporter_port = 9100
staleness_timeout = 30
sweep_interval = 2
reconnect_delay = 7
read_timeout = 3
log_level = "debug"
pid_file = "/run/psu-exporter.pid"
self_metrics = false
`)

	// Set environment variable to point to the test config file
	t.Setenv(config.ConfigEnv, configPath)

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM1", cfg.GetSerialPort())
	assert.Equal(t, 9600, cfg.GetBaudRate())
	assert.Equal(t, 9100, cfg.GetExporterPort())
	assert.Equal(t, 30*time.Second, cfg.GetStalenessTimeout())
	assert.Equal(t, 2*time.Second, cfg.GetSweepInterval())
	assert.Equal(t, 7*time.Second, cfg.GetReconnectDelay())
	assert.Equal(t, 3*time.Second, cfg.GetReadTimeout())
	assert.Equal(t, "debug", cfg.GetLogLevel())
	assert.Equal(t, "/run/psu-exporter.pid", cfg.GetPIDFile())
	assert.False(t, cfg.IsSelfMetricsEnabled())
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv(config.ConfigEnv, "")

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultSerialPort, cfg.SerialPort)
	assert.Equal(t, config.DefaultBaudRate, cfg.BaudRate)
	assert.Equal(t, config.DefaultExporterPort, cfg.ExporterPort)
	assert.Equal(t, 10*time.Second, cfg.GetStalenessTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetSweepInterval())
	assert.Equal(t, 5*time.Second, cfg.GetReconnectDelay())
	assert.Equal(t, time.Second, cfg.GetReadTimeout())
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(os.TempDir(), "psu-exporter.pid"), cfg.PIDFile)
	assert.True(t, cfg.SelfMetrics)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := writeConfig(t, `
serial_port = "/dev/from-file"
exporter_port = 9000
staleness_timeout = 20
`)

	t.Setenv("SERIAL_PORT", "/dev/from-env")
	t.Setenv("EXPORTER_PORT", "9001")

	cfg, err := config.Load(
		config.WithConfigFile(configPath),
		config.WithArgs([]string{"--exporter-port", "9002"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "/dev/from-env", cfg.SerialPort, "env overrides file")
	assert.Equal(t, 9002, cfg.ExporterPort, "flag overrides env")
	assert.Equal(t, 20*time.Second, cfg.GetStalenessTimeout(), "file overrides default")
}

func TestLoadEnvPrefix(t *testing.T) {
	t.Setenv(config.ConfigEnv, "")
	t.Setenv("BAUD_RATE", "9600")
	t.Setenv("PSU_BAUD_RATE", "57600")
	t.Setenv("SELF_METRICS", "false")

	cfg, err := config.Load(config.WithArgs(nil), config.WithEnvPrefix("psu"))
	require.NoError(t, err)

	assert.Equal(t, 57600, cfg.BaudRate)
	assert.False(t, cfg.SelfMetrics)
}

func TestLoadConfigFlag(t *testing.T) {
	configPath := writeConfig(t, `log_level = "error"`)
	t.Setenv(config.ConfigEnv, "")

	cfg, err := config.Load(config.WithArgs([]string{"--config", configPath}))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)

	_, err := config.Load(config.WithConfigFile(configPath), config.WithArgs(nil))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadUnparsableNumber(t *testing.T) {
	t.Setenv(config.ConfigEnv, "")
	t.Setenv("EXPORTER_PORT", "abc")

	_, err := config.Load(config.WithArgs(nil))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestLoadInvalidFlag(t *testing.T) {
	t.Setenv(config.ConfigEnv, "")

	_, err := config.Load(config.WithArgs([]string{"--baud-rate", "fast"}))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			SerialPort:       config.DefaultSerialPort,
			BaudRate:         config.DefaultBaudRate,
			ExporterPort:     config.DefaultExporterPort,
			StalenessTimeout: config.DefaultStalenessTimeout,
			SweepInterval:    config.DefaultSweepInterval,
			ReconnectDelay:   config.DefaultReconnectDelay,
			ReadTimeout:      config.DefaultReadTimeout,
			LogLevel:         config.DefaultLogLevel,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.ErrorCode
	}{
		{"empty serial port", func(c *config.Config) { c.SerialPort = "" }, errors.ErrInvalidConfig},
		{"zero baud rate", func(c *config.Config) { c.BaudRate = 0 }, errors.ErrInvalidConfig},
		{"port zero", func(c *config.Config) { c.ExporterPort = 0 }, errors.ErrInvalidPort},
		{"port too large", func(c *config.Config) { c.ExporterPort = 65536 }, errors.ErrInvalidPort},
		{"zero staleness timeout", func(c *config.Config) { c.StalenessTimeout = 0 }, errors.ErrInvalidInterval},
		{"negative sweep interval", func(c *config.Config) { c.SweepInterval = -1 }, errors.ErrInvalidInterval},
		{"zero reconnect delay", func(c *config.Config) { c.ReconnectDelay = 0 }, errors.ErrInvalidInterval},
		{"zero read timeout", func(c *config.Config) { c.ReadTimeout = 0 }, errors.ErrInvalidInterval},
		{"unknown log level", func(c *config.Config) { c.LogLevel = "invalid" }, errors.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("trace").IsValid())
}
