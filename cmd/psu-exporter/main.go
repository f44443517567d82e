package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/psu-exporter/internal/config"
	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/ingest"
	"codeberg.org/mutker/psu-exporter/internal/liveness"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	"codeberg.org/mutker/psu-exporter/internal/metrics"
	"codeberg.org/mutker/psu-exporter/internal/pid"
	"codeberg.org/mutker/psu-exporter/internal/serial"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.GetLogLevel())
	logger.Init(level, logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(cfg.GetPIDFile()); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("Failed to write PID file")
		}
		logger.Fatal().Err(err).Msg("Failed to write PID file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)

	err = run(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Exporter stopped with error")
	}
	cleanup(cfg)
	cancel()

	os.Exit(exitCode(err))
}

// exitCode maps the result of run to the process exit status, so a
// supervisor can tell a failed start from a requested shutdown.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// run wires the exporter together and blocks until ctx is cancelled or a
// component fails.
func run(ctx context.Context, cfg config.Provider) error {
	serialCfg := serial.Config{
		Device:      cfg.GetSerialPort(),
		BaudRate:    cfg.GetBaudRate(),
		ReadTimeout: cfg.GetReadTimeout(),
	}
	livenessCfg := liveness.Config{
		StalenessTimeout: cfg.GetStalenessTimeout(),
		SweepInterval:    cfg.GetSweepInterval(),
	}
	ingestCfg := ingest.DefaultConfig()
	ingestCfg.ReconnectDelay = cfg.GetReconnectDelay()
	metricsCfg := metrics.Config{
		Port:        cfg.GetExporterPort(),
		SelfMetrics: cfg.IsSelfMetricsEnabled(),
	}

	for _, v := range []interface{ Validate() error }{serialCfg, livenessCfg, ingestCfg, metricsCfg} {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	if metricsCfg.SelfMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry, err := metrics.NewRegistry(reg, logger.Component("metrics"))
	if err != nil {
		return err
	}

	cache := liveness.NewCache(registry, logger.Component("cache"))

	stats, err := metrics.NewStats(metricsCfg, reg, cache.Len)
	if err != nil {
		return err
	}

	clk := clockwork.NewRealClock()
	opener := serial.NewOpener(serialCfg, logger.Component("serial"))
	loop := ingest.NewLoop(ingestCfg, opener, cache, stats, clk, logger.Component("ingest"))
	sweeper := liveness.NewSweeper(livenessCfg, cache, registry, stats, clk, logger.Component("sweeper"))
	server := metrics.NewServer(metricsCfg, reg, logger.Component("server"))

	logger.Info().
		Int("port", metricsCfg.Port).
		Str("serial_port", serialCfg.Device).
		Int("baud_rate", serialCfg.BaudRate).
		Msgf("Starting PSU Exporter on port %d reading from %s", metricsCfg.Port, serialCfg.Device)
	logger.Info().
		Dur("staleness_timeout", livenessCfg.StalenessTimeout).
		Dur("sweep_interval", livenessCfg.SweepInterval).
		Msgf("PSU staleness timeout: %s", livenessCfg.StalenessTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	g.Go(func() error { return loop.Run(gctx) })

	return g.Wait()
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(cfg config.Provider) {
	if err := pid.Remove(cfg.GetPIDFile()); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}
