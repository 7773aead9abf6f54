// Package app wires the catalog, store and validator into a runnable
// application and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowforge/internal/catalog"
	"github.com/vk/flowforge/internal/ctxlog"
	"github.com/vk/flowforge/internal/validate"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	errW      io.Writer
	logger    *slog.Logger
	config    *Config
	catalog   *catalog.Registry
	validator *validate.Validator
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and catalog.
// Failure to load the catalog is a fatal startup error and panics; main
// recovers and reports it.
func NewApp(outW, errW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := catalog.New()
	reg.RegisterHooks()
	if err := reg.LoadManifests(ctx, cfg.CatalogPath); err != nil {
		panic(fmt.Errorf("failed to load node type catalog: %w", err))
	}
	if err := reg.Validate(); err != nil {
		// A mismatch between Go hooks and manifests is a programmer error.
		panic(err)
	}
	logger.Debug("Catalog validation passed.", "definitions", reg.Len())

	return &App{
		outW:      outW,
		errW:      errW,
		logger:    logger,
		config:    cfg,
		catalog:   reg,
		validator: validate.New(reg),
	}
}

// Catalog returns the application's node type registry. Primarily for tests.
func (a *App) Catalog() *catalog.Registry {
	return a.catalog
}
