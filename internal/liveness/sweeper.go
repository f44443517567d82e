package liveness

import (
	"context"

	"codeberg.org/mutker/psu-exporter/internal/logger"
	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"github.com/jonboulle/clockwork"
)

// Sweeper periodically evicts devices that stopped reporting.
type Sweeper struct {
	tracker  Tracker
	registry metrics.Registry
	stats    metrics.Stats
	clock    clockwork.Clock
	cfg      Config
	logger   logger.Logger
}

func NewSweeper(
	cfg Config, tracker Tracker, registry metrics.Registry, stats metrics.Stats, clk clockwork.Clock, log logger.Logger,
) *Sweeper {
	return &Sweeper{
		tracker:  tracker,
		registry: registry,
		stats:    stats,
		clock:    clk,
		cfg:      cfg,
		logger:   log,
	}
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Debug().
		Dur("interval", s.cfg.SweepInterval).
		Dur("staleness_timeout", s.cfg.StalenessTimeout).
		Msg("Sweeper started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

// Sweep runs one eviction pass and returns the evicted device ids.
func (s *Sweeper) Sweep() []string {
	stale := s.tracker.CollectStale(s.clock.Now(), s.cfg.StalenessTimeout)

	for _, id := range stale {
		s.registry.ClearDevice(id)
		s.logger.Info().Str("psu_id", id).Msg("Cleared metrics for PSU")
	}
	if len(stale) > 0 {
		s.stats.Evicted(len(stale))
	}

	return stale
}
