package metrics

import "codeberg.org/mutker/psu-exporter/internal/errors"

const (
	// Registry Errors
	ErrRegistryWrite = errors.ErrRegistryWrite
	ErrRegistryClear = errors.ErrRegistryClear
	ErrRegister      = errors.ErrorCode("metrics_register_failed")
	ErrUnknownSeries = errors.ErrorCode("metrics_unknown_series")
	ErrInvalidFan    = errors.ErrorCode("metrics_invalid_fan_index")

	// Server Errors
	ErrServe    = errors.ErrServeMetrics
	ErrShutdown = errors.ErrShutdownFailed
)
