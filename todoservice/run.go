package todoservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Bhavishyakolloori/todolist-v1/internal/api"
	"github.com/Bhavishyakolloori/todolist-v1/internal/config"
	"github.com/Bhavishyakolloori/todolist-v1/internal/factory"
	"github.com/Bhavishyakolloori/todolist-v1/internal/health"
	"github.com/Bhavishyakolloori/todolist-v1/internal/logger"
	"github.com/Bhavishyakolloori/todolist-v1/internal/render"
	"github.com/Bhavishyakolloori/todolist-v1/internal/services"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

// Run starts the to-do HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("todo-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	return Serve(ctx, cfg, log)
}

// Serve runs the service with an already loaded configuration until ctx is
// cancelled. The database is not required to be up: requests fail with 500
// until it is reachable.
func Serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("To-do service starting")

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer closeStore(st, log)

	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	router, err := buildRouter(st, svcHealth, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to build router")
		return err
	}

	ln, err := net.Listen("tcp", cfg.GetHTTPAddr())
	if err != nil {
		log.Error().Stack().Err(err).Msg("HTTP listen failed")
		return err
	}
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, ln, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

func buildRouter(st store.Store, svcHealth api.HealthReporter, log zerolog.Logger) (*mux.Router, error) {
	view, err := render.New()
	if err != nil {
		return nil, err
	}
	return api.NewRouter(services.NewListService(st), view, svcHealth, log), nil
}

// startHealthCheckers starts the store checker and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, ln net.Listener, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

func closeStore(st store.Store, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("store close failed")
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
