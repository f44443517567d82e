package serial

import (
	"fmt"

	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	goserial "go.bug.st/serial"
)

// deviceOpener opens a serial device in 8N1 mode with a bounded read timeout.
type deviceOpener struct {
	cfg    Config
	logger logger.Logger
	open   func(device string, mode *goserial.Mode) (goserial.Port, error)
}

func NewOpener(cfg Config, log logger.Logger) Opener {
	return &deviceOpener{cfg: cfg, logger: log, open: goserial.Open}
}

func (o *deviceOpener) Open() (Port, error) {
	errFactory := errors.New()

	mode := &goserial.Mode{
		BaudRate: o.cfg.BaudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	}

	port, err := o.open(o.cfg.Device, mode)
	if err != nil {
		o.logAvailablePorts()
		return nil, errFactory.Wrap(ErrOpen, err)
	}

	if err := port.SetReadTimeout(o.cfg.ReadTimeout); err != nil {
		if closeErr := port.Close(); closeErr != nil {
			o.logger.Debug().Err(closeErr).Msg("Failed to close serial port")
		}
		return nil, errFactory.Wrap(ErrReadTimeout, err)
	}

	return port, nil
}

func (o *deviceOpener) String() string {
	return fmt.Sprintf("%s@%d", o.cfg.Device, o.cfg.BaudRate)
}

func (o *deviceOpener) logAvailablePorts() {
	ports, err := goserial.GetPortsList()
	if err != nil {
		o.logger.Debug().Err(err).Msg("Failed to list serial ports")
		return
	}
	o.logger.Debug().Strs("ports", ports).Msg("Available serial ports")
}
