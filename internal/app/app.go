package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradepulse/config"
	"github.com/guttosm/tradepulse/internal/api"
	"github.com/guttosm/tradepulse/internal/broker"
	"github.com/guttosm/tradepulse/internal/risk"
	"github.com/guttosm/tradepulse/internal/service"
	"github.com/guttosm/tradepulse/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Initializes the repository layer (TradesRepository).
//   - Builds the broker registry (one provider per supported broker).
//   - Creates the service layer (analytics + sync) and the HTTP handlers.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// Connect to PostgreSQL
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	// Initialize repository layer (responsible for DB access)
	repo := storage.NewTradesRepository(db)

	// Broker registry: one concrete provider per broker, explicit DI.
	registry := NewBrokerRegistry(cfg)

	// Initialize service layer (business logic)
	riskCfg := risk.Config{
		MaxTradesPerDay: cfg.Risk.MaxTradesPerDay,
		MaxLossPerDay:   decimal.NewFromFloat(cfg.Risk.MaxDailyLoss),
	}
	analyticsSvc := service.NewAnalyticsService(repo, riskCfg)
	syncSvc := service.NewSyncService(repo, registry)

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(analyticsSvc, syncSvc, decimal.NewFromFloat(cfg.Journal.BaselineCapital))

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	healthHandler := api.NewHealthHandler(db.Ping)
	healthHandler.Register(router)

	// Cleanup resources on shutdown
	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

// NewBrokerRegistry builds the provider registry from configuration. The
// providers share one HTTP client with the configured timeout; request
// contexts still control per-call cancellation.
func NewBrokerRegistry(cfg config.Config) *broker.Registry {
	client := &http.Client{Timeout: time.Duration(cfg.Brokers.TimeoutSeconds) * time.Second}
	return broker.NewRegistry(
		broker.NewZerodha(cfg.Brokers.ZerodhaBaseURL, client),
		broker.NewDhan(cfg.Brokers.DhanBaseURL, client),
	)
}
