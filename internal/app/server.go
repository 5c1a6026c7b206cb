package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// server exposes /health and /metrics while the app runs.
type server struct {
	logger *slog.Logger
	http   *http.Server
	ln     net.Listener
}

func (a *App) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		a.logger.Debug("Health check endpoint hit.", "remoteAddr", r.RemoteAddr, "path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	return mux
}

// startServer listens on port and serves in the background. It returns nil
// when the port is disabled.
func (a *App) startServer(port int) (*server, error) {
	if port <= 0 {
		a.logger.Debug("Health check server not started: disabled")
		return nil, nil
	}

	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s := &server{
		logger: a.logger,
		http:   &http.Server{Handler: a.handler(), ReadHeaderTimeout: shutdownTimeout},
		ln:     ln,
	}

	go func() {
		s.logger.Info("Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
	return s, nil
}

func (s *server) close() error {
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down health check server...")
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Health check server shut down gracefully.")
	return nil
}
