package metrics_test

import (
	"testing"

	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	tracked := 3
	stats, err := metrics.NewStats(metrics.DefaultConfig(), reg, func() int { return tracked })
	require.NoError(t, err)

	stats.FrameAccepted()
	stats.FrameAccepted()
	stats.FrameMalformed()
	stats.SetConnected(true)
	stats.Reconnect()
	stats.Evicted(2)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["psu_exporter_frames_total/accepted"])
	assert.Equal(t, 1.0, values["psu_exporter_frames_total/malformed"])
	assert.Equal(t, 0.0, values["psu_exporter_frames_total/invalid"])
	assert.Equal(t, 1.0, values["psu_exporter_serial_connected"])
	assert.Equal(t, 1.0, values["psu_exporter_serial_reconnects_total"])
	assert.Equal(t, 2.0, values["psu_exporter_evictions_total"])
	assert.Equal(t, 3.0, values["psu_exporter_tracked_devices"])

	stats.SetConnected(false)
	count, err := testutil.GatherAndCount(reg, "psu_exporter_serial_connected")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStatsDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := metrics.DefaultConfig()
	cfg.SelfMetrics = false

	stats, err := metrics.NewStats(cfg, reg, nil)
	require.NoError(t, err)
	stats.FrameAccepted()
	stats.Evicted(5)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConfigValidate(t *testing.T) {
	cfg := metrics.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8000", cfg.Addr())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}
