package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/errors"
	"codeberg.org/mutker/psu-exporter/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

const landingPage = `<html>
<head><title>PSU Exporter</title></head>
<body>
<h1>PSU Exporter</h1>
<p><a href="` + metricsPath + `">Metrics</a></p>
</body>
</html>
`

// Server exposes a gatherer on /metrics for scraping.
type Server struct {
	srv    *http.Server
	logger logger.Logger
}

func NewServer(cfg Config, gatherer prometheus.Gatherer, log logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewHandler(gatherer, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// NewHandler returns the scrape mux: the metrics endpoint and a landing page.
func NewHandler(gatherer prometheus.Gatherer, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      promLogger{log},
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(landingPage))
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errFactory := errors.New()
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("Serving metrics")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errFactory.Wrap(ErrServe, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errFactory.Wrap(ErrShutdown, err)
	}
	return nil
}

// promLogger adapts Logger to promhttp's Println-style error log.
type promLogger struct {
	logger logger.Logger
}

func (l promLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}
