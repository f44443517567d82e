package metrics

import (
	"strconv"
	"sync"

	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// seriesKey identifies one exported label set of a device.
type seriesKey struct {
	series Series
	fan    string
}

// PromRegistry implements Registry on top of Prometheus gauge vectors and
// remembers exactly which label sets it created for each device.
type PromRegistry struct {
	scalars map[Series]*prometheus.GaugeVec
	fans    *prometheus.GaugeVec
	logger  logger.Logger

	mu     sync.Mutex
	active map[string]map[seriesKey]struct{}
}

var scalarHelp = map[Series]string{
	SeriesTemperature: "PSU Temperature",
	SeriesVoltage:     "Input Voltage",
	SeriesCurrent:     "Input Current",
	SeriesPower:       "Input Power",
	SeriesStatus:      "PSU Status (1=OK, 0=Fail)",
}

// NewRegistry creates the PSU gauge families and registers them with reg.
func NewRegistry(reg prometheus.Registerer, log logger.Logger) (*PromRegistry, error) {
	errFactory := errors.New()

	r := &PromRegistry{
		scalars: make(map[Series]*prometheus.GaugeVec, len(scalarHelp)),
		fans: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: string(SeriesFanSpeed),
			Help: "PSU Fan Speed",
		}, []string{LabelDeviceID, LabelFanIndex}),
		logger: log,
		active: make(map[string]map[seriesKey]struct{}),
	}

	collectors := []prometheus.Collector{r.fans}
	for series, help := range scalarHelp {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: string(series),
			Help: help,
		}, []string{LabelDeviceID})
		r.scalars[series] = vec
		collectors = append(collectors, vec)
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, errFactory.Wrap(ErrRegister, err)
		}
	}

	return r, nil
}

func (r *PromRegistry) SetScalar(series Series, deviceID string, value float64) {
	vec, ok := r.scalars[series]
	if !ok {
		r.logger.ErrorWithCode(errors.New().WithData(ErrUnknownSeries, series)).
			Str("psu_id", deviceID).
			Msg("Failed to set metric")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	gauge, err := vec.GetMetricWithLabelValues(deviceID)
	if err != nil {
		r.logger.ErrorWithCode(errors.New().Wrap(ErrRegistryWrite, err)).
			Str("series", string(series)).
			Str("psu_id", deviceID).
			Msg("Failed to set metric")
		return
	}
	gauge.Set(value)
	r.track(deviceID, seriesKey{series: series})
}

func (r *PromRegistry) SetFan(deviceID string, fanIndex int, value float64) {
	if fanIndex < 1 {
		r.logger.ErrorWithCode(errors.New().WithData(ErrInvalidFan, fanIndex)).
			Str("psu_id", deviceID).
			Msg("Failed to set fan metric")
		return
	}
	index := strconv.Itoa(fanIndex)

	r.mu.Lock()
	defer r.mu.Unlock()

	gauge, err := r.fans.GetMetricWithLabelValues(deviceID, index)
	if err != nil {
		r.logger.ErrorWithCode(errors.New().Wrap(ErrRegistryWrite, err)).
			Str("psu_id", deviceID).
			Str("fan_index", index).
			Msg("Failed to set fan metric")
		return
	}
	gauge.Set(value)
	r.track(deviceID, seriesKey{series: SeriesFanSpeed, fan: index})
}

func (r *PromRegistry) ClearDevice(deviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys, ok := r.active[deviceID]
	if !ok {
		return
	}

	for key := range keys {
		var deleted bool
		if key.series == SeriesFanSpeed {
			deleted = r.fans.DeleteLabelValues(deviceID, key.fan)
		} else {
			deleted = r.scalars[key.series].DeleteLabelValues(deviceID)
		}
		if !deleted {
			r.logger.ErrorWithCode(errors.New().WithData(ErrRegistryClear, string(key.series))).
				Str("psu_id", deviceID).
				Str("fan_index", key.fan).
				Msg("Failed to clear metric")
		}
	}
	delete(r.active, deviceID)

	r.logger.Debug().
		Str("psu_id", deviceID).
		Int("series", len(keys)).
		Msg("Removed device series")
}

// Devices returns the ids that currently have at least one exported series.
func (r *PromRegistry) Devices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	return ids
}

// track must be called with mu held.
func (r *PromRegistry) track(deviceID string, key seriesKey) {
	keys, ok := r.active[deviceID]
	if !ok {
		keys = make(map[seriesKey]struct{})
		r.active[deviceID] = keys
	}
	keys[key] = struct{}{}
}
