// Package server exposes the cycle generator and protocol builder over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/izzettinalhalil/pushover/internal/logging"
	"github.com/izzettinalhalil/pushover/internal/protocol"
)

const (
	DefaultAddr     = ":8080"
	DefaultMaxSteps = 1 << 20
	maxBodyBytes    = 1 << 20
)

type Options struct {
	// Rate and Burst bound requests per client on /api. Zero Rate disables
	// limiting.
	Rate     rate.Limit
	Burst    int
	// MaxSteps caps the length of any generated cycle or schedule. Zero
	// means protocol.MaxSteps.
	MaxSteps int
	Log      *zap.Logger
}

func DefaultOptions() Options {
	return Options{Rate: 10, Burst: 20, MaxSteps: DefaultMaxSteps}
}

type Server struct {
	router   *mux.Router
	log      *zap.Logger
	maxSteps int
}

func New(opts Options) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		log:      logging.OrNop(opts.Log),
		maxSteps: opts.MaxSteps,
	}
	if s.maxSteps <= 0 || s.maxSteps > protocol.MaxSteps {
		s.maxSteps = protocol.MaxSteps
	}
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		api.Use(NewIPRateLimiter(opts.Rate, burst).LimitMiddleware)
	}

	api.HandleFunc("/cycle", s.handleCycle).Methods(http.MethodPost)
	api.HandleFunc("/protocol", s.handleProtocol).Methods(http.MethodPost)
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodPost)
	api.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	api.HandleFunc("/presets/{name}", s.handlePreset).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
