package ingest

import (
	"context"
	"sync/atomic"

	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/liveness"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"codeberg.org/mutker/psu-exporter/internal/serial"
	"codeberg.org/mutker/psu-exporter/internal/telemetry"
	"github.com/jonboulle/clockwork"
)

// State of the transport connection.
type State int32

const (
	Disconnected State = iota
	Connected
	Reading
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Reading:
		return "reading"
	default:
		return "unknown"
	}
}

// Loop reads frames from the transport and feeds accepted records to the
// liveness cache. Transport failures never stop it: it waits a fixed
// delay and reconnects until its context is cancelled.
type Loop struct {
	opener   serial.Opener
	recorder liveness.Recorder
	stats    metrics.Stats
	clock    clockwork.Clock
	cfg      Config
	logger   logger.Logger

	state atomic.Int32
}

func NewLoop(
	cfg Config, opener serial.Opener, recorder liveness.Recorder, stats metrics.Stats, clk clockwork.Clock, log logger.Logger,
) *Loop {
	return &Loop{
		opener:   opener,
		recorder: recorder,
		stats:    stats,
		clock:    clk,
		cfg:      cfg,
		logger:   log,
	}
}

// State returns the current connection state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

// Run drives the Disconnected -> Connected -> Reading state machine until
// ctx is cancelled. It always returns nil.
func (l *Loop) Run(ctx context.Context) error {
	var (
		port   serial.Port
		reader *lineReader
	)

	for ctx.Err() == nil {
		switch l.State() {
		case Disconnected:
			p, err := l.opener.Open()
			if err != nil {
				l.logTransportError(err, "Failed to open serial port")
				l.stats.Reconnect()
				l.wait(ctx)
				continue
			}
			port = p
			l.setState(Connected)

		case Connected:
			l.logger.Info().Str("port", l.opener.String()).Msg("Connected to serial port")
			l.stats.SetConnected(true)
			reader = newLineReader(port, l.cfg.MaxLineLength)
			l.setState(Reading)

		case Reading:
			err := l.read(ctx, reader)
			l.disconnect(port)
			port, reader = nil, nil
			if err == nil {
				return nil
			}
			l.logTransportError(errors.New().Wrap(ErrRead, err), "Connection lost")
			l.stats.Reconnect()
			l.wait(ctx)
		}
	}

	if port != nil {
		l.disconnect(port)
	}
	return nil
}

// read consumes lines until the transport fails or ctx is cancelled, in
// which case it returns nil.
func (l *Loop) read(ctx context.Context, reader *lineReader) error {
	for ctx.Err() == nil {
		line, ok, err := reader.next()
		switch {
		case err == errLineTooLong:
			l.stats.FrameMalformed()
			l.logger.Warn().Int("max_length", l.cfg.MaxLineLength).Msg("Dropped overlong line")
		case err != nil:
			return err
		case ok:
			l.handleLine(line)
		}
	}
	return nil
}

func (l *Loop) handleLine(line string) {
	if line == "" {
		return
	}

	rec, err := telemetry.Parse(line)
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) && appErr.Code() == telemetry.ErrMissingField {
			l.stats.FrameInvalid()
			l.logger.Warn().Interface("field", appErr.GetData()).Str("line", line).Msg("Invalid frame")
			return
		}
		l.stats.FrameMalformed()
		l.logger.Warn().Str("line", line).Msg("Invalid JSON")
		return
	}

	l.stats.FrameAccepted()
	l.recorder.Record(rec, l.clock.Now())
}

func (l *Loop) disconnect(port serial.Port) {
	if err := port.Close(); err != nil {
		l.logger.Debug().Err(err).Msg("Failed to close serial port")
	}
	l.stats.SetConnected(false)
	l.setState(Disconnected)
}

// wait sleeps for the reconnect delay or until ctx is cancelled.
func (l *Loop) wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-l.clock.After(l.cfg.ReconnectDelay):
	}
}

func (l *Loop) logTransportError(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		l.logger.ErrorWithCode(appErr).
			Dur("retry_in", l.cfg.ReconnectDelay).
			Msg(msg)
		return
	}
	l.logger.Error().Err(err).Dur("retry_in", l.cfg.ReconnectDelay).Msg(msg)
}
