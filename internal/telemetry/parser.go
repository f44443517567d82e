package telemetry

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"

	"codeberg.org/mutker/psu-exporter/internal/errors"
)

// Parse decodes one line into a Record. It either returns a fully populated
// Record or an error coded ErrMalformed or ErrMissingField, never both.
func Parse(line string) (*Record, error) {
	errFactory := errors.New()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		return nil, errFactory.WithData(ErrMalformed, line)
	}

	id, ok := deviceID(fields[FieldID])
	if !ok {
		return nil, errFactory.WithData(ErrMissingField, FieldID)
	}

	rec := &Record{DeviceID: id, FanSpeeds: make([]float64, 2)}

	numeric := []struct {
		name string
		dst  *float64
	}{
		{FieldTemperature, &rec.Temperature},
		{FieldFan1, &rec.FanSpeeds[0]},
		{FieldFan2, &rec.FanSpeeds[1]},
		{FieldVoltage, &rec.InputVoltage},
		{FieldCurrent, &rec.InputCurrent},
		{FieldPower, &rec.InputPower},
	}
	for _, f := range numeric {
		v, ok := number(fields[f.name])
		if !ok {
			return nil, errFactory.WithData(ErrMissingField, f.name)
		}
		*f.dst = v
	}

	status, ok := flag(fields[FieldStatus])
	if !ok {
		return nil, errFactory.WithData(ErrMissingField, FieldStatus)
	}
	rec.StatusOK = status

	return rec, nil
}

// deviceID accepts string and number identifiers. Integer literals keep every
// digit regardless of size; other numbers are rendered in shortest form.
func deviceID(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	n, ok := jsonNumber(raw)
	if !ok {
		return "", false
	}
	if i, ok := new(big.Int).SetString(n.String(), 10); ok {
		return i.String(), true
	}
	f, err := n.Float64()
	if err != nil {
		return "", false
	}

	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func number(raw json.RawMessage) (float64, bool) {
	n, ok := jsonNumber(raw)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}

	return f, true
}

// flag accepts JSON booleans and numbers, where any non-zero number is true.
func flag(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	f, ok := number(raw)
	if !ok {
		return false, false
	}

	return f != 0, true
}

// jsonNumber only succeeds for a bare JSON number literal, so quoted
// numbers and null are rejected as wrong-typed.
func jsonNumber(raw json.RawMessage) (json.Number, bool) {
	if len(raw) == 0 {
		return "", false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	n, ok := v.(json.Number)

	return n, ok
}
