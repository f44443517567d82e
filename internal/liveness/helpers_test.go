package liveness_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/logger"
	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"codeberg.org/mutker/psu-exporter/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func nopLogger() logger.Logger {
	return logger.New(zerolog.Nop())
}

func newPromRegistry(t *testing.T) (*metrics.PromRegistry, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	r, err := metrics.NewRegistry(reg, nopLogger())
	require.NoError(t, err)
	return r, reg
}

func record(id string) *telemetry.Record {
	return &telemetry.Record{
		DeviceID:     id,
		Temperature:  45.2,
		FanSpeeds:    []float64{3000, 3100},
		InputVoltage: 230.1,
		InputCurrent: 2.1,
		InputPower:   480,
		StatusOK:     true,
	}
}

// recordingRegistry counts calls per device.
type recordingRegistry struct {
	mu     sync.Mutex
	sets   map[string]int
	clears map[string]int
	values map[string]float64
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{
		sets:   map[string]int{},
		clears: map[string]int{},
		values: map[string]float64{},
	}
}

func (r *recordingRegistry) SetScalar(series metrics.Series, deviceID string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[deviceID]++
	r.values[string(series)+"/"+deviceID] = value
}

func (r *recordingRegistry) SetFan(deviceID string, fanIndex int, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[deviceID]++
	r.values[fmt.Sprintf("%s/%s/%d", metrics.SeriesFanSpeed, deviceID, fanIndex)] = value
}

func (r *recordingRegistry) ClearDevice(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears[deviceID]++
}

func (r *recordingRegistry) clearCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears[id]
}

func (r *recordingRegistry) value(key string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key]
}

func (r *recordingRegistry) setCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sets[id]
}

// countingStats records evictions.
type countingStats struct {
	mu      sync.Mutex
	evicted int
}

func (*countingStats) FrameAccepted()    {}
func (*countingStats) FrameMalformed()   {}
func (*countingStats) FrameInvalid()     {}
func (*countingStats) SetConnected(bool) {}
func (*countingStats) Reconnect()        {}

func (s *countingStats) Evicted(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicted += n
}

func (s *countingStats) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}
