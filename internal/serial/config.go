package serial

import (
	"time"

	"codeberg.org/mutker/psu-exporter/internal/errors"
)

const (
	defaultDevice      = "/dev/ttyUSB0"
	defaultBaudRate    = 115200
	defaultReadTimeout = time.Second
)

type Config struct {
	Device      string
	BaudRate    int
	ReadTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Device:      defaultDevice,
		BaudRate:    defaultBaudRate,
		ReadTimeout: defaultReadTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Device == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "serial device must not be empty")
	}
	if c.BaudRate <= 0 {
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value int
		}{"baud_rate", c.BaudRate})
	}
	if c.ReadTimeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, struct {
			Field string
			Value time.Duration
		}{"read_timeout", c.ReadTimeout})
	}
	return nil
}
