package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Run builds the configured stores and evaluates every synthetic, once or on
// every tick of the watch interval until ctx is done.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	stores, err := a.registry.BuildStores(ctx, a.model, a.converter)
	if err != nil {
		return fmt.Errorf("failed to build stores: %w", err)
	}
	defer func() {
		if closeErr := stores.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close stores: %w", closeErr))
		}
	}()
	a.logger.Info("Stores ready.", "names", stores.Names())

	srv, err := a.startServer(a.cfg.HealthcheckPort)
	if err != nil {
		return err
	}
	defer srv.close()

	if a.cfg.Watch == 0 {
		return a.evaluate(ctx, stores)
	}

	a.logger.Info("Watching synthetics.", "interval", a.cfg.Watch)
	ticker := time.NewTicker(a.cfg.Watch)
	defer ticker.Stop()
	for {
		if err := a.evaluate(ctx, stores); err != nil {
			if ctx.Err() != nil {
				break
			}
			// A failed tick is reported and the next one retried.
			a.logger.Error("Evaluation failed.", "error", err)
		}
		select {
		case <-ctx.Done():
			a.logger.Debug("App.Run method finished.")
			return nil
		case <-ticker.C:
		}
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// evaluate resolves every synthetic with a fresh resolver and writes the
// results.
func (a *App) evaluate(ctx context.Context, stores *registry.Stores) error {
	res, err := a.newResolver(stores, newRunID())
	if err != nil {
		return err
	}

	specs := a.model.Specs()
	if a.cfg.Latest {
		latest, err := res.Latest(ctx, specs)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		return writeLatest(a.outW, a.cfg.Output, latest)
	}

	results, err := res.Resolve(ctx, specs)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	return writeResults(a.outW, a.cfg.Output, results)
}

func (a *App) newResolver(stores *registry.Stores, runID string) (*resolver.Resolver, error) {
	defaultName, err := a.model.DefaultStore()
	if err != nil {
		return nil, err
	}

	var defaultStore resolver.Store
	if defaultName != "" {
		defaultStore, _ = stores.Get(defaultName)
	}
	opts := []resolver.Option{
		resolver.WithOperations(a.registry.Operations()),
		resolver.WithLogger(a.logger.With("runId", runID)),
		resolver.WithObserver(a.recorder),
	}
	for _, name := range stores.Names() {
		s, _ := stores.Get(name)
		opts = append(opts, resolver.WithStore(name, s))
	}
	return resolver.New(defaultStore, opts...), nil
}
