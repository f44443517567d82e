package ingest

import (
	"time"

	"codeberg.org/mutker/psu-exporter/internal/errors"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultMaxLineLength  = 4096
)

type Config struct {
	ReconnectDelay time.Duration
	MaxLineLength  int
}

func DefaultConfig() Config {
	return Config{
		ReconnectDelay: defaultReconnectDelay,
		MaxLineLength:  defaultMaxLineLength,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.ReconnectDelay <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, struct {
			Field string
			Value time.Duration
		}{"reconnect_delay", c.ReconnectDelay})
	}
	if c.MaxLineLength <= 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value int
		}{"max_line_length", c.MaxLineLength})
	}
	return nil
}
