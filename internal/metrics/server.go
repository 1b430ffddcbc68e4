package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/waylon/internal/logger"
)

const metricsReadHeaderTimeout = 5 * time.Second

// Enabled reports whether addr asks for a metrics listener.
func Enabled(addr string) bool {
	switch strings.ToLower(strings.TrimSpace(addr)) {
	case "", "off", "disabled", "false":
		return false
	}
	return true
}

// Handler serves /metrics and /healthz.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// StartServer starts the metrics listener on addr and shuts it down when ctx
// ends. It returns nil values when addr disables metrics.
func StartServer(ctx context.Context, addr string, log logger.Logger) (*http.Server, <-chan error) {
	if !Enabled(addr) {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.Noop()
	}

	srv := &http.Server{
		Addr:              strings.TrimSpace(addr),
		Handler:           Handler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv, errCh
}
