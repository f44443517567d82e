package telemetry

// Frame keys emitted by the PSU controller firmware.
const (
	FieldID          = "id"
	FieldTemperature = "temp"
	FieldFan1        = "fan1"
	FieldFan2        = "fan2"
	FieldVoltage     = "v_in"
	FieldCurrent     = "i_in"
	FieldPower       = "p_in"
	FieldStatus      = "ok"
)

// Record is one accepted telemetry frame for a single PSU.
type Record struct {
	DeviceID     string
	Temperature  float64
	FanSpeeds    []float64 // FanSpeeds[i] is fan index i+1
	InputVoltage float64
	InputCurrent float64
	InputPower   float64
	StatusOK     bool
}

// StatusValue returns the status flag as a gauge value.
func (r *Record) StatusValue() float64 {
	if r.StatusOK {
		return 1
	}
	return 0
}
