package main

//
//  @title           quotepulse API
//  @version         1.0
//  @description     Yahoo Finance market-data gateway: tools over REST and MCP.
//  @termsOfService  https://github.com/guttosm/quotepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/quotepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        tools
//  @tag.description Operation catalog and invocation
//
//  @tag.name        resources
//  @tag.description Read-only market documents
//
//  @tag.name        market
//  @tag.description Convenience market endpoints
//
//  @tag.name        journal
//  @tag.description Call journal
//
//  @tag.name        health
//  @tag.description Liveness and readiness checks

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/quotepulse/config"
	_ "github.com/guttosm/quotepulse/docs" // swagger docs
	"github.com/guttosm/quotepulse/internal/app"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/mcpserver"
	"github.com/guttosm/quotepulse/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP handler (Gin Engine or SSE transport).
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
//   - cleanup (func()): Cleanup callback to release resources (journal, DB connection).
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

// modeFor maps MCP_TRANSPORT to the default run mode.
func modeFor(transport string) string {
	switch transport {
	case "stdio", "sse":
		return transport
	default:
		return "api"
	}
}

// main is the entry point of the quotepulse application.
//
// Modes (selected via --mode flag, default derived from MCP_TRANSPORT):
//   - api:   REST API, health checks, Swagger and streamable-HTTP MCP on /mcp.
//   - stdio: MCP over stdin/stdout; logs go to stderr.
//   - sse:   MCP over Server-Sent Events.
//   - purge: deletes journaled calls older than --older-than and exits.
//
// Flags:
//   - --mode: Execution mode. Default: from MCP_TRANSPORT ("http" means api).
//   - --port: Port for api and sse modes. Defaults to value from config (SERVER_PORT).
//   - --older-than: Retention for purge mode. Default: 720h.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()
	cfg := config.AppConfig

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", modeFor(cfg.MCP.Transport), "Mode: api, stdio, sse or purge")
	port := flag.String("port", cfg.Server.Port, "Port for api and sse modes")
	olderThan := flag.Duration("older-than", 30*24*time.Hour, "Purge journaled calls older than this")
	flag.Parse()

	// stdout belongs to the protocol in stdio mode
	if *mode == "stdio" {
		logger.InitTo(os.Stderr)
	} else {
		logger.Init()
	}

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(a.Router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "sse":
		logger.L().Info().Str("base_url", cfg.MCP.SSEBaseURL).Msg("starting MCP SSE server")

		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(mcpserver.NewSSE(a.MCP, cfg.MCP.SSEBaseURL), *port)
		gracefulShutdown(ctx, server, cleanup)

	case "stdio":
		a, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer cleanup()

		logger.L().Info().Msg("serving MCP over stdio")
		if err := mcpserver.ServeStdio(a.MCP); err != nil {
			logger.L().Error().Err(err).Msg("stdio server stopped")
		}

	case "purge":
		// Direct DB connection for journal retention
		db, err := app.InitPostgres(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		if err := storage.Migrate(db); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}
		cutoff := time.Now().UTC().Add(-*olderThan)
		n, err := storage.NewCallRepository(db).PurgeBefore(ctx, cutoff)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("purge failed")
		}
		logger.L().Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("journal purge completed")

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
