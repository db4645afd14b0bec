// Package app wires the inventory service together.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/teiprometal/inventory/internal/config"
	"github.com/teiprometal/inventory/internal/inventory"
	"github.com/teiprometal/inventory/internal/service"
	"github.com/teiprometal/inventory/internal/transport/rest"
	"github.com/teiprometal/inventory/pkg/server"
	"github.com/teiprometal/inventory/pkg/web"
)

const ServiceName = "inventory"

type Dependencies struct {
	InventoryService service.InventoryService
	Logger           *slog.Logger
	Registry         *prometheus.Registry
	Metrics          *web.Metrics
}

// SetupDependencies builds the service on top of the pool. Every request
// acquires its own connection and Inventory instance.
func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	provider := inventory.NewPgProvider(dbPool, logger)
	return NewDependencies(service.NewService(provider), logger)
}

// NewDependencies creates Dependencies around an existing service with a fresh metrics registry.
func NewDependencies(svc service.InventoryService, logger *slog.Logger) *Dependencies {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Dependencies{
		InventoryService: svc,
		Logger:           logger,
		Registry:         registry,
		Metrics:          web.NewMetrics(registry),
	}
}

// SetupHttpHandler initializes the router and routes for the inventory service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	var metrics *web.Metrics
	if cfg.Metrics.Enabled {
		metrics = deps.Metrics
	}
	mux := server.NewChiRouter(deps.Logger, ServiceName, metrics)
	wireRoutes(mux, deps, cfg)
	return mux
}

// wireRoutes sets up the HTTP routes for the inventory service.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	inventoryHandler := rest.NewHandler(deps.InventoryService, deps.Logger)
	inventoryHandler.RegisterRoutes(mux)
	if cfg.Metrics.Enabled {
		mux.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates and configures an HTTP server for the inventory service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, ServiceName, mux)
}
