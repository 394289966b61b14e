package main

//
//  @title           tradepulse API
//  @version         1.0
//  @description     Trade journal analytics, discipline flags & broker sync service.
//  @termsOfService  https://github.com/guttosm/tradepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tradepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        analytics
//  @tag.description Endpoints for querying performance stats, equity curve and discipline flags
//
//  @tag.name        sync
//  @tag.description Endpoints for importing broker tradebooks
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tradepulse/config"
	_ "github.com/guttosm/tradepulse/docs" // swagger docs
	"github.com/guttosm/tradepulse/internal/app"
	"github.com/guttosm/tradepulse/internal/broker"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/service"
	"github.com/guttosm/tradepulse/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runSync imports the tradebook of every broker that has an access token in
// the environment (<BROKER>_ACCESS_TOKEN), in parallel, for one account.
//
// Behavior:
//   - Skips entirely on non-trading days (weekends, market holidays) unless
//     force is set; there is nothing new to pull when the exchange was closed.
//   - Brokers whose trading day is already in the sync log are skipped by the
//     service; force rolls back the prior batch and re-imports.
//   - Brokers without a token are skipped with a log line, not an error.
//   - The first broker error cancels the remaining syncs (errgroup).
func runSync(ctx context.Context, syncSvc service.SyncService, brokers []string, accountID uuid.UUID, force bool) error {
	if !broker.IsTradingDay(time.Now()) && !force {
		logger.L().Info().Msg("market closed today, skipping sync (use --force to override)")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, name := range brokers {
		envKey := strings.ToUpper(name) + "_ACCESS_TOKEN"
		token := os.Getenv(envKey)
		if token == "" {
			logger.L().Info().Str("broker", name).Str("env", envKey).Msg("no access token, skipping broker")
			continue
		}

		name := name
		g.Go(func() error {
			start := time.Now()
			result, err := syncSvc.SyncBroker(gctx, name, token, accountID, force)
			if err != nil {
				logger.L().Error().Str("broker", name).Err(err).Msg("broker sync failed")
				return err
			}
			logger.L().Info().
				Str("broker", result.Broker).
				Str("batch_id", result.BatchID.String()).
				Int("inserted", result.Inserted).
				Bool("skipped", result.Skipped).
				Dur("elapsed", time.Since(start)).
				Msg("broker sync done")
			return nil
		})
	}

	return g.Wait()
}

// main is the entry point of the tradepulse application.
//
// Modes (selected via --mode flag):
//   - api:  Starts the REST API exposing stats, equity curve, flags and sync.
//   - sync: Pulls tradebooks from all brokers with configured tokens for one
//     account and exits.
//
// Flags:
//   - --mode:    Execution mode ("api" or "sync"). Default: "api".
//   - --account: Account UUID to sync (required in sync mode).
//   - --force:   Sync even on non-trading days and re-import days already
//     in the sync log.
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or sync")
	account := flag.String("account", "", "Account UUID to sync (sync mode)")
	force := flag.Bool("force", false, "Sync even on non-trading days and re-import already-synced days")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "sync":
		// Sync mode: pull broker tradebooks and exit
		logger.L().Info().Msg("running broker sync")

		accountID, err := uuid.Parse(*account)
		if err != nil {
			logger.L().Fatal().Str("account", *account).Err(err).Msg("sync mode requires a valid --account UUID")
		}

		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		repo := storage.NewTradesRepository(db)
		registry := app.NewBrokerRegistry(config.AppConfig)
		syncSvc := service.NewSyncService(repo, registry)

		if err := runSync(ctx, syncSvc, registry.Names(), accountID, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("sync failed")
		}
		logger.L().Info().Msg("sync completed successfully")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
