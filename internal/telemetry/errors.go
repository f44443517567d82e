package telemetry

import "codeberg.org/mutker/psu-exporter/internal/errors"

const (
	// ErrMalformed is returned when a line is not a JSON object. Data carries the raw line.
	ErrMalformed = errors.ErrFrameMalformed

	// ErrMissingField is returned when a required key is absent or has the wrong type.
	// Data carries the field name.
	ErrMissingField = errors.ErrFrameMissingField
)
