package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/specialistvlad/synthtags/internal/config"
	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/internal/metrics"
	"github.com/specialistvlad/synthtags/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	cfg       *Config
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter
	metrics   *prometheus.Registry
	recorder  *metrics.Recorder
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. It returns a fully initialized App instance,
// including its own isolated logger, registry and metrics.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, converter, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if len(cfgModel.Synthetics) == 0 {
		panic(fmt.Errorf("no synthetic blocks found in %s", appConfig.ConfigPath))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "stores", len(cfgModel.Stores), "synthetics", len(cfgModel.Synthetics))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error, so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       appConfig,
		registry:  reg,
		model:     cfgModel,
		converter: converter,
		metrics:   promRegistry,
		recorder:  metrics.NewRecorder(promRegistry),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func newRunID() string {
	return uuid.New().String()[:8]
}
