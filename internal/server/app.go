// Package server initializes and runs the API process. It opens the
// configured document store, wires services into the HTTP dispatcher,
// starts the HTTP, HTTPS and gRPC health listeners together with the token
// reaper and the config watcher, and shuts everything down on SIGINT or
// SIGTERM.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"

	gs "github.com/dmitrijs2005/uptimekeeper/internal/server/grpc"
)

type App struct {
	config  *config.Config
	level   *slog.LevelVar
	logger  logging.Logger
	repos   *repomanager.StoreRepositoryManager
	metrics *metrics.Metrics
	router  *httpapi.Router
	handler http.Handler
	reaper  *services.TokenReaper
	health  *gs.HealthServer

	// watch is swapped in tests.
	watch func(ctx context.Context, path string, base func() *config.Config, log logging.Logger, onChange func(*config.Config)) error
}

// NewApp validates c, builds the logger and opens the store. Logs go to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := new(slog.LevelVar)
	l, _ := logging.ParseLevel(c.LogLevel)
	level.Set(l)

	logger, err := logging.New(w, c.LogFormat, level)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	m := metrics.New()

	ts := services.NewTokenService(rm, c)
	us := services.NewUserService(rm, c, logger)
	cs := services.NewCheckService(rm, c)

	h := httpapi.NewHandlers(ts, us, cs, logger)
	router := httpapi.NewRouter(h.Routes(), nil)
	d := httpapi.NewDispatcher(router, c.MaxBodyBytes, logger, m)

	app := &App{
		config:  c,
		level:   level,
		logger:  logger,
		repos:   rm,
		metrics: m,
		router:  router,
		handler: httpapi.NewMux(d, m.Handler()),
		reaper:  services.NewTokenReaper(rm, logger, m.TokensReaped),
		watch:   config.Watch,
	}
	if c.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger)
	}
	return app, nil
}

// applyReload takes the settings that can change at runtime from a
// reloaded config. Only the log level is live.
func (app *App) applyReload(ctx context.Context, c *config.Config) {
	l, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return
	}
	if l != app.level.Level() {
		app.logger.Info(ctx, "log level changed", "from", app.level.Level().String(), "to", l.String())
		app.level.Set(l)
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, opts httpapi.ServerOptions) {
	s := httpapi.NewServer(app.handler, opts, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", opts.Name, "error", err)
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.health.SetServing(true)
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC health server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startWatcher(ctx context.Context) {
	base := func() *config.Config {
		c := *app.config
		return &c
	}
	err := app.watch(ctx, app.config.ConfigFile, base, app.logger, func(c *config.Config) {
		app.applyReload(ctx, c)
	})
	if err != nil {
		app.logger.Error(ctx, "config watcher failed", "error", err)
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a listener fails,
// then waits for every component to stop and closes the store.
func (app *App) Run(ctx context.Context) error {

	// SIGINT and SIGTERM cancel ctx; stopSignals releases the handler.
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.EnvName, "storage", app.config.StorageDriver)
	app.logger.Info(ctx, "routes registered", "paths", app.router.Paths())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, httpapi.ServerOptions{Name: "http", Addr: app.config.HTTPAddr})
	}()

	if app.config.TLSEnabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc, httpapi.ServerOptions{
				Name:        "https",
				Addr:        app.config.HTTPSAddr,
				TLSCertFile: app.config.TLSCertFile,
				TLSKeyFile:  app.config.TLSKeyFile,
			})
		}()
	}

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHealthServer(ctx, cancelFunc)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.reaper.Run(ctx, app.config.TokenReapInterval)
	}()

	if app.config.WatchConfig && app.config.ConfigFile != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startWatcher(ctx)
		}()
	}

	wg.Wait()

	app.logger.Info(context.Background(), "Stopped, closing store")
	return app.repos.Close()
}
