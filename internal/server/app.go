// Package server assembles the college API from configuration: logger,
// storage, services, the HTTP API and the gRPC health endpoint. It handles
// graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/college/internal/logging"
	"github.com/dmitrijs2005/college/internal/server/auth"
	"github.com/dmitrijs2005/college/internal/server/config"
	"github.com/dmitrijs2005/college/internal/server/httpapi"
	"github.com/dmitrijs2005/college/internal/server/metrics"
	"github.com/dmitrijs2005/college/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/college/internal/server/services"

	gs "github.com/dmitrijs2005/college/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *httpapi.Server
	health *gs.HealthServer
}

// NewApp builds every component and applies pending migrations. Logs go to
// logOut as JSON.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSONLogger(logOut, level)

	creds, err := auth.NewCredentialStore(c.AdminUsername, c.AdminPasswordHash)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	tokens, err := auth.NewTokenService([]byte(c.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	repos, err := repomanager.Open(c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := metrics.New()
	handlers := httpapi.NewHandlers(
		services.NewAuthService(creds, tokens, c.AccessTokenValidityDuration),
		services.NewStudentService(repos),
		m,
		logger,
	)

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http:   httpapi.NewServer(c.EndpointAddrHTTP, httpapi.NewRouter(handlers, m, logger), logger, c.ShutdownTimeout),
	}
	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, repos, logger)
	}

	logger.Info(ctx, "App initialized", "storage", c.StorageDriver)
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is done, a signal arrives or a server fails. It
// closes the storage before returning.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.http.Run)
	if app.health != nil {
		start("grpc", app.health.Run)
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return errors.Join(errs...)
}
