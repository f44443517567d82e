package metrics

import (
	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultAccepted  = "accepted"
	resultMalformed = "malformed"
	resultInvalid   = "invalid"
)

type promStats struct {
	frames     *prometheus.CounterVec
	connected  prometheus.Gauge
	reconnects prometheus.Counter
	evictions  prometheus.Counter
}

// No-op implementation
type noopStats struct{}

// NewStats registers the exporter self-metrics. trackedDevices backs the
// psu_exporter_tracked_devices gauge and may be nil.
func NewStats(cfg Config, reg prometheus.Registerer, trackedDevices func() int) (Stats, error) {
	if !cfg.SelfMetrics {
		logger.Debug().Msg("Self metrics disabled, using no-op stats")
		return &noopStats{}, nil
	}

	s := &promStats{
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "psu_exporter_frames_total",
			Help: "Frames read from the serial link by parse result",
		}, []string{"result"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psu_exporter_serial_connected",
			Help: "1 while the serial link is open",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "psu_exporter_serial_reconnects_total",
			Help: "Failed connects and lost connections on the serial link",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "psu_exporter_evictions_total",
			Help: "PSUs evicted after exceeding the staleness timeout",
		}),
	}

	// Pre-create result series so they are exported as zero.
	for _, result := range []string{resultAccepted, resultMalformed, resultInvalid} {
		s.frames.WithLabelValues(result)
	}

	collectors := []prometheus.Collector{s.frames, s.connected, s.reconnects, s.evictions}
	if trackedDevices != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "psu_exporter_tracked_devices",
			Help: "PSUs currently reporting within the staleness timeout",
		}, func() float64 {
			return float64(trackedDevices())
		}))
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, errors.New().Wrap(ErrRegister, err)
		}
	}

	return s, nil
}

func (s *promStats) FrameAccepted() {
	s.frames.WithLabelValues(resultAccepted).Inc()
}

func (s *promStats) FrameMalformed() {
	s.frames.WithLabelValues(resultMalformed).Inc()
}

func (s *promStats) FrameInvalid() {
	s.frames.WithLabelValues(resultInvalid).Inc()
}

func (s *promStats) SetConnected(connected bool) {
	if connected {
		s.connected.Set(1)
		return
	}
	s.connected.Set(0)
}

func (s *promStats) Reconnect() {
	s.reconnects.Inc()
}

func (s *promStats) Evicted(count int) {
	s.evictions.Add(float64(count))
}

// No-op implementation
func (*noopStats) FrameAccepted()    {}
func (*noopStats) FrameMalformed()   {}
func (*noopStats) FrameInvalid()     {}
func (*noopStats) SetConnected(bool) {}
func (*noopStats) Reconnect()        {}
func (*noopStats) Evicted(int)       {}

// NoopStats returns a Stats that discards everything.
func NoopStats() Stats {
	return &noopStats{}
}
