package liveness

import (
	"sort"
	"sync"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/logger"
	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"codeberg.org/mutker/psu-exporter/internal/telemetry"
)

// Cache tracks when each PSU last reported and pushes accepted records to
// the metric registry. A device has exported series exactly while it has
// a last-seen entry, apart from the brief re-export window described on
// CollectStale.
type Cache struct {
	registry metrics.Registry
	logger   logger.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

var _ Tracker = (*Cache)(nil)

func NewCache(registry metrics.Registry, log logger.Logger) *Cache {
	return &Cache{
		registry: registry,
		logger:   log,
		lastSeen: make(map[string]time.Time),
	}
}

// Record stamps the device as seen at now and exports all of its values in
// the same critical section, so a sweep can never observe the stamp without
// the series or evict series that were just written. Registry writes are
// in-memory gauge updates, so the hold time stays constant per record.
func (c *Cache) Record(rec *telemetry.Record, now time.Time) {
	if rec == nil {
		return
	}
	id := rec.DeviceID

	c.mu.Lock()
	c.lastSeen[id] = now
	c.registry.SetScalar(metrics.SeriesTemperature, id, rec.Temperature)
	for i, speed := range rec.FanSpeeds {
		c.registry.SetFan(id, i+1, speed)
	}
	c.registry.SetScalar(metrics.SeriesVoltage, id, rec.InputVoltage)
	c.registry.SetScalar(metrics.SeriesCurrent, id, rec.InputCurrent)
	c.registry.SetScalar(metrics.SeriesPower, id, rec.InputPower)
	c.registry.SetScalar(metrics.SeriesStatus, id, rec.StatusValue())
	c.mu.Unlock()

	c.logger.Debug().Str("psu_id", id).Msg("Updated metrics for PSU")
}

// CollectStale detects and forgets stale devices in a single critical
// section, so a Record racing with the sweep either lands before it (and
// the device is not stale) or after it (and the device is tracked again).
// The caller clears the returned devices from the registry outside the
// lock; a device that reports again in between is re-exported on its next
// record.
func (c *Cache) CollectStale(now time.Time, timeout time.Duration) []string {
	c.mu.Lock()
	var stale []string
	for id, seen := range c.lastSeen {
		if now.Sub(seen) > timeout {
			stale = append(stale, id)
			delete(c.lastSeen, id)
		}
	}
	c.mu.Unlock()

	sort.Strings(stale)
	return stale
}

// Len returns the number of tracked devices.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lastSeen)
}

// LastSeen returns when the device last reported, if it is tracked.
func (c *Cache) LastSeen(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen, ok := c.lastSeen[id]
	return seen, ok
}

// Devices returns the tracked device ids in sorted order.
func (c *Cache) Devices() []string {
	c.mu.Lock()
	ids := make([]string, 0, len(c.lastSeen))
	for id := range c.lastSeen {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	sort.Strings(ids)
	return ids
}
