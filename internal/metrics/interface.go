package metrics

// Series names a per-PSU gauge family exported to Prometheus.
type Series string

const (
	SeriesTemperature Series = "psu_temperature_celsius"
	SeriesFanSpeed    Series = "psu_fan_speed_rpm"
	SeriesVoltage     Series = "psu_input_voltage_volts"
	SeriesCurrent     Series = "psu_input_current_amps"
	SeriesPower       Series = "psu_input_power_watts"
	SeriesStatus      Series = "psu_status_ok"
)

// Label names
const (
	LabelDeviceID = "psu_id"
	LabelFanIndex = "fan_index"
)

// Registry is the only way the liveness cache touches exported series.
// Every method is idempotent and reports failures through logging only.
type Registry interface {
	// SetScalar upserts a gauge labeled by device id only.
	SetScalar(series Series, deviceID string, value float64)

	// SetFan upserts a fan speed gauge labeled by device id and fan index (1-based).
	SetFan(deviceID string, fanIndex int, value float64)

	// ClearDevice removes every series previously set for deviceID.
	// Clearing an unknown device is a no-op.
	ClearDevice(deviceID string)
}

// Stats receives exporter self-observations from the ingest loop and sweeper.
type Stats interface {
	FrameAccepted()
	FrameMalformed()
	FrameInvalid()
	SetConnected(connected bool)
	Reconnect()
	Evicted(count int)
}
