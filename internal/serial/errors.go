package serial

import "codeberg.org/mutker/psu-exporter/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrOpen          = errors.ErrTransportOpen
	ErrReadTimeout   = errors.ErrorCode("transport_read_timeout_failed")
)
