package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"spotr/internal/controllers"
	"spotr/internal/kvstore"
	"spotr/internal/providers"
	"spotr/internal/services"
	"spotr/internal/structures"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
	scheduler kvstore.SchedulerInterface
	state     services.AppStateInterface
	conf      *structures.Config
	logger    providers.Logger
}

func NewApp(healthController *controllers.HealthController, scheduler kvstore.SchedulerInterface, state services.AppStateInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes, each labelled by its pattern
	instrumentedAPI := providers.InstrumentRoutes(metrics, router.GetRoutes())

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scheduler: scheduler,
		state:     state,
		conf:      conf,
		logger:    logger,
	}
}

// Boot restores the snapshot, hydrates the session and starts periodic flushing.
// A failed restore is logged and the app starts from an empty store.
func (a *App) Boot(ctx context.Context) {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	state := a.state.Load(ctx)
	a.logger.Infof(providers.TypeApp, "Session loaded: city %s, %d favorites", state.UserCity, len(state.Favorites))
	a.scheduler.Init()
}

// Run boots the app and serves HTTP until SIGINT/SIGTERM, then shuts down and
// flushes the store.
func (a *App) Run() error {
	a.Boot(context.Background())

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown stops the listener and the flush schedule, then writes a final snapshot.
// The snapshot is written even when draining connections fails.
func (a *App) Shutdown(ctx context.Context) error {
	a.scheduler.Stop()
	defer a.state.Close()

	serverErr := a.WebServer.Shutdown(ctx)
	if serverErr != nil {
		a.logger.Errorf(providers.TypeApp, "Server shutdown error: %s", serverErr)
	}
	if err := a.scheduler.Persist(); err != nil {
		return errors.Join(serverErr, err)
	}
	if serverErr != nil {
		return serverErr
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
