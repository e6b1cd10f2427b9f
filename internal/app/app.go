package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/quotepulse/config"
	"github.com/guttosm/quotepulse/internal/api"
	"github.com/guttosm/quotepulse/internal/logger"
	"github.com/guttosm/quotepulse/internal/mcpserver"
	"github.com/guttosm/quotepulse/internal/screener"
	"github.com/guttosm/quotepulse/internal/service"
	"github.com/guttosm/quotepulse/internal/storage"
	"github.com/guttosm/quotepulse/internal/toolkit"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported by the MCP server during initialization.
var Version = "1.0.0"

// MCPPath is where the streamable HTTP transport is mounted on the router.
const MCPPath = "/mcp"

// App bundles the transports built by InitializeApp.
//
// Fields:
//   - Router: Gin engine with the REST API, health checks, Swagger and /mcp.
//   - MCP: the MCP server, for the stdio and SSE transports.
//   - Calls: the call journal repository, nil when the journal is disabled.
type App struct {
	Router *gin.Engine
	MCP    *server.MCPServer
	Calls  storage.CallRepository
}

// InitializeApp sets up all application dependencies and returns
// the assembled App, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the upstream client and the screener fallback chain.
//   - Creates the operation gateway and the tool registry over it.
//   - When JOURNAL_ENABLED, connects to PostgreSQL, applies migrations and
//     journals every tool invocation.
//   - Builds the MCP server and the Gin router (with /mcp mounted).
//   - Registers health and readiness checks.
//   - Provides a cleanup function that flushes the journal and closes the DB.
func InitializeApp() (*App, func(), error) {
	cfg := config.AppConfig

	// Upstream provider and screener chain
	gateway := newGateway(cfg)

	var (
		opts    []toolkit.Option
		checks  []api.Check
		calls   storage.CallRepository
		cleanup = func() {}
	)

	// Optional call journal
	if cfg.Journal.Enabled {
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		if err := migrator(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		calls = storage.NewCallRepository(db)
		journal := storage.NewJournal(calls, storage.DefaultJournalBuffer, storage.DefaultBatchSize, storage.DefaultFlushEvery)
		opts = append(opts, toolkit.WithObserver(journal.Observe))
		checks = append(checks, api.Check{Name: "postgres", Ping: calls.Ping})

		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := journal.Close(ctx); err != nil {
				logger.L().Warn().Err(err).Msg("journal did not flush before shutdown")
			}
			_ = db.Close()
		}
	}

	registry := toolkit.New(gateway, opts...)
	mcp := mcpserver.New(registry, Version, cfg.MCP.ToolGroups...)

	// Setup Gin router with routes
	handler := api.NewHandler(registry, callLister(calls))
	router := api.NewRouter(handler,
		api.WithTimeout(cfg.Server.RequestTimeout),
		api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
		api.WithMCP(MCPPath, mcpserver.NewStreamableHTTP(mcp)),
	)

	// Register health and readiness checks
	api.NewHealthHandler(checks...).Register(router)

	return &App{Router: router, MCP: mcp, Calls: calls}, cleanup, nil
}

// newGateway wires the upstream client, the screener fallback chain and the
// gateway from cfg.
func newGateway(cfg config.Config) *service.Gateway {
	client := yahooClient(cfg.Yahoo)
	chain := screener.WithFallback(
		screener.NewPrimary(client),
		screener.NewDirectEndpoint(cfg.Yahoo.PublicURL, cfg.Yahoo.UserAgent, cfg.Yahoo.Timeout),
	)
	return service.NewGateway(client, chain)
}

// callLister keeps a nil repository a nil interface for the handler.
func callLister(calls storage.CallRepository) api.CallLister {
	if calls == nil {
		return nil
	}
	return calls
}

// migrator is an indirection used by InitializeApp; overridden in tests.
var migrator = storage.Migrate
