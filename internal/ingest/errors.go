package ingest

import (
	"codeberg.org/mutker/psu-exporter/internal/errors"
)

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrRead          = errors.ErrTransportRead
)

var errLineTooLong = errors.New().WithMessage(errors.ErrFrameMalformed, "line exceeds maximum length")
