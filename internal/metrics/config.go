package metrics

import (
	"strconv"

	"codeberg.org/mutker/psu-exporter/internal/errors"
)

const (
	defaultPort = 8000
	metricsPath = "/metrics"
)

type Config struct {
	Port        int
	SelfMetrics bool
}

func DefaultConfig() Config {
	return Config{
		Port:        defaultPort,
		SelfMetrics: true,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Port < 1 || c.Port > 65535 {
		return errFactory.WithData(errors.ErrInvalidPort, c.Port)
	}
	return nil
}

// Addr returns the listen address for the scrape endpoint.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
