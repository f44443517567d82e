package liveness

import (
	"time"

	"codeberg.org/mutker/psu-exporter/internal/errors"
)

const (
	defaultStalenessTimeout = 10 * time.Second
	defaultSweepInterval    = 5 * time.Second
)

type Config struct {
	StalenessTimeout time.Duration
	SweepInterval    time.Duration
}

func DefaultConfig() Config {
	return Config{
		StalenessTimeout: defaultStalenessTimeout,
		SweepInterval:    defaultSweepInterval,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.StalenessTimeout <= 0 {
		return errFactory.WithData(ErrInvalidInterval, struct {
			Field string
			Value time.Duration
		}{"staleness_timeout", c.StalenessTimeout})
	}
	if c.SweepInterval <= 0 {
		return errFactory.WithData(ErrInvalidInterval, struct {
			Field string
			Value time.Duration
		}{"sweep_interval", c.SweepInterval})
	}
	return nil
}
