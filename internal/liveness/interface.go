package liveness

import (
	"time"

	"codeberg.org/mutker/psu-exporter/internal/telemetry"
)

// Recorder accepts telemetry for a device and refreshes its liveness.
type Recorder interface {
	Record(rec *telemetry.Record, now time.Time)
}

// Tracker is the full liveness surface shared by the ingest loop and the sweeper.
type Tracker interface {
	Recorder

	// CollectStale removes and returns every device whose last record is
	// older than timeout at now.
	CollectStale(now time.Time, timeout time.Duration) []string
}
