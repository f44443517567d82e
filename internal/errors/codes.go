package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidPort     ErrorCode = "invalid_port"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Transport errors
	ErrTransportOpen ErrorCode = "transport_open_failed"
	ErrTransportRead ErrorCode = "transport_read_failed"

	// Frame errors
	ErrFrameMalformed    ErrorCode = "frame_malformed"
	ErrFrameMissingField ErrorCode = "frame_missing_field"

	// Registry errors
	ErrRegistryWrite ErrorCode = "registry_write_failed"
	ErrRegistryClear ErrorCode = "registry_clear_failed"

	// Server errors
	ErrServeMetrics ErrorCode = "serve_metrics_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrInvalidConfig:     "Invalid configuration",
	ErrReadConfig:        "Failed to read config file",
	ErrBindFlags:         "Failed to bind flags",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidPort:       "Invalid port number",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrShutdownFailed:    "Shutdown failed",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrTransportOpen:     "Failed to open transport",
	ErrTransportRead:     "Failed to read from transport",
	ErrFrameMalformed:    "Malformed frame",
	ErrFrameMissingField: "Missing or invalid field",
	ErrRegistryWrite:     "Failed to write metric",
	ErrRegistryClear:     "Failed to clear metric",
	ErrServeMetrics:      "Failed to serve metrics",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
