// Package app wires configuration, storage, background workers and the HTTP
// routes into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"emailbuilder/config"
	_ "emailbuilder/docs"
	"emailbuilder/handlers"
	"emailbuilder/internal/assets"
	"emailbuilder/internal/jobs"
	"emailbuilder/internal/layout"
	"emailbuilder/internal/render"
	"emailbuilder/internal/store"
	"emailbuilder/internal/telemetry"
	"emailbuilder/internal/worker"
	"emailbuilder/middleware"
	"emailbuilder/utils"
)

// App is a configured server with its resources.
type App struct {
	cfg    *config.Config
	logger *logrus.Logger

	server     *fiber.App
	store      *store.Store
	assets     *assets.Store
	dispatcher *worker.Dispatcher
	retention  *jobs.RetentionScheduler
	registry   *prometheus.Registry
	tracer     *sdktrace.TracerProvider

	closeOnce sync.Once
}

// New prepares the upload directory and the database before any route is
// registered, so the server never accepts a request it cannot serve.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var err error
	a.assets, err = assets.NewStore(cfg.UploadDir, cfg.PublicBaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("prepare upload directory: %w", err)
	}

	var storeOpts []store.Option
	if cfg.Tracing {
		a.tracer, err = telemetry.SetupTracing(context.Background(), telemetry.Options{
			ServiceName: "emailbuilder",
			Stdout:      cfg.TracingStdout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure tracing: %w", err)
		}
		storeOpts = append(storeOpts, store.WithTracerProvider(a.tracer))
	}

	a.store, err = store.Open(cfg.DatabasePath, logger, storeOpts...)
	if err != nil {
		a.shutdownTracer()
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Thumbnails || cfg.RetentionAge() > 0 {
		a.dispatcher = worker.NewDispatcher(cfg.Workers, cfg.QueueSize, logger)
	}
	if cfg.RetentionAge() > 0 {
		a.retention = jobs.NewRetentionScheduler(a.dispatcher, a.assets, cfg.RetentionAge(), cfg.RetentionEvery(), logger)
	}

	a.server = a.buildServer()
	return a, nil
}

// Server returns the underlying fiber app.
func (a *App) Server() *fiber.App {
	return a.server
}

func (a *App) buildServer() *fiber.App {
	cfg := a.cfg
	server := fiber.New(fiber.Config{
		AppName:               "emailbuilder",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          utils.ErrorHandler(a.logger, cfg.IsDevelopment()),
	})

	// Middleware
	server.Use(middleware.RequestLogger(a.logger))
	server.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
	}))

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = middleware.NewMetrics(a.registry)
		server.Use(metrics.Handler())
	}

	var renderOpts []render.Option
	if cfg.RenderAllowHTML {
		renderOpts = append(renderOpts, render.WithAllowHTML(nil))
	}

	h := handlers.NewApplicationHandler(
		a.store,
		a.assets,
		layout.NewSource(cfg.LayoutPath),
		render.New(renderOpts...),
		a.logger,
	)
	h.Metrics = metrics
	h.Debug = cfg.IsDevelopment()
	if cfg.Thumbnails {
		h.Jobs = a.dispatcher
		h.ThumbnailSize = cfg.ThumbnailSize
		h.ThumbnailMaxPixels = cfg.ThumbnailMaxPixels
	}

	server.Get("/health", h.Health)
	if a.registry != nil {
		server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}
	server.Get("/swagger/*", fiberSwagger.WrapHandler)
	server.Static(assets.URLPrefix, a.assets.Dir())

	api := server.Group("/api")
	api.Get("/getEmailLayout", h.GetEmailLayout)
	api.Post("/uploadImage", h.UploadImage)
	api.Post("/uploadEmailConfig", h.CreateTemplate)
	api.Get("/templates", h.ListTemplates)
	api.Post("/renderAndDownloadTemplate", h.RenderAndDownloadTemplate)

	return server
}

// StartBackground starts the worker pool and the retention schedule.
func (a *App) StartBackground() {
	if a.dispatcher != nil {
		a.dispatcher.Run()
	}
	if a.retention != nil {
		a.retention.Start()
	}
}

// Listen serves HTTP until the server is shut down.
func (a *App) Listen() error {
	addr := a.cfg.ListenAddr()
	a.logger.WithFields(logrus.Fields{
		"addr":        addr,
		"uploads":     absPath(a.cfg.UploadDir),
		"database":    a.cfg.DatabasePath,
		"environment": a.cfg.Env,
	}).Info("Starting email builder")
	return a.server.Listen(addr)
}

// Shutdown stops accepting requests, waits for in-flight ones up to the
// deadline of ctx, then stops background work and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	a.Close()
	return errors.Join(errs...)
}

// Close releases background workers and the database without touching the
// HTTP listener.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.retention != nil {
			a.retention.Stop()
		}
		if a.dispatcher != nil {
			a.dispatcher.Stop()
		}
		if err := a.store.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Warn("Closing database failed")
		}
		a.shutdownTracer()
	})
}

// shutdownTracer flushes buffered spans.
func (a *App) shutdownTracer() {
	if a.tracer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.WithField("error", err.Error()).Warn("Flushing traces failed")
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
