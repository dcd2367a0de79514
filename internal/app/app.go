package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrissnell/noaaclock/internal/config"
	"github.com/chrissnell/noaaclock/internal/engine"
	"github.com/chrissnell/noaaclock/internal/metrics"
	"github.com/chrissnell/noaaclock/internal/render"
	"github.com/chrissnell/noaaclock/internal/server"
	"github.com/chrissnell/noaaclock/pkg/location"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	resolver *location.Resolver
	closers  []io.Closer
}

// New creates a new application instance and assembles its location provider
// chain: text dataset, SQLite database (if present), inline locations, built-in table.
func New(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	providers := []location.Provider{location.NewFileProvider(cfg.Dataset, logger)}

	if cfg.LocationDB != "" {
		if _, err := os.Stat(cfg.LocationDB); errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("location database %s not found, skipping", cfg.LocationDB)
		} else {
			db, err := location.NewSQLiteProvider(cfg.LocationDB, logger)
			if err != nil {
				return nil, fmt.Errorf("error opening location database: %w", err)
			}
			a.closers = append(a.closers, db)
			providers = append(providers, db)
		}
	}

	if len(cfg.Locations) > 0 {
		providers = append(providers, cfg.InlineProvider())
	}
	providers = append(providers, location.Builtin())

	a.resolver = location.NewResolver(logger, providers...)
	return a, nil
}

// Resolver returns the location provider chain
func (a *App) Resolver() *location.Resolver {
	return a.resolver
}

// Locate turns a selection into a location. Explicit coordinates bypass the
// resolver.
func (a *App) Locate(sel Selection) (location.Location, error) {
	if sel.Coordinates != nil {
		return sel.Coordinates.Location()
	}
	return a.resolver.Resolve(sel.Name)
}

// Close releases the location database, if one was opened
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Once performs a single refresh and writes the readout to out
func (a *App) Once(loc location.Location, homeTZ *float64, out io.Writer) error {
	e, err := engine.New(loc, a.logger, engine.Options{
		HomeTZ:    homeTZ,
		Renderers: []engine.Renderer{render.NewText(out)},
	})
	if err != nil {
		return err
	}
	_, err = e.Refresh(timeNow())
	return err
}

// Run starts the clock and blocks until shutdown
func (a *App) Run(ctx context.Context, loc location.Location, homeTZ *float64, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec := metrics.New()
	opts := engine.Options{
		HomeTZ:    homeTZ,
		Interval:  a.cfg.RefreshInterval,
		Recorder:  rec,
		Renderers: []engine.Renderer{render.NewText(out)},
	}

	if a.cfg.HTTP.ListenAddr != "" {
		srv := server.New(a.cfg.HTTP.ListenAddr, a.resolver.KnownNames, rec.Handler(), a.logger)
		opts.Renderers = append(opts.Renderers, srv)
		srv.Start(ctx)
	}

	e, err := engine.New(loc, a.logger, opts)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(ctx)
	}()

	a.logger.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	cancel()
	<-done
	a.logger.Info("shutdown complete")

	return nil
}
