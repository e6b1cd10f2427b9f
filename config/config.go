package config

import (
	"log"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the upstream market-data provider, the MCP transport
// and the optional Postgres call journal.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	MCP_TRANSPORT=http
//	YAHOO_BASE_URL=https://query2.finance.yahoo.com
//	YAHOO_RATE_LIMIT=5
//	JOURNAL_ENABLED=false
//	POSTGRES_HOST=localhost
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	MCP      MCPConfig      // MCP transport selection
	Yahoo    YahooConfig    // Upstream provider settings
	Journal  JournalConfig  // Call journal toggle
	Postgres PostgresConfig // PostgreSQL connection settings (journal only)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Upper bound for a single HTTP request
	RateLimit      float64       // Per-client sustained requests per second
	RateBurst      int           // Per-client burst size
}

// MCPConfig selects how the MCP server is exposed.
//
// Fields:
//   - Transport: "stdio", "sse" or "http" (streamable HTTP mounted on /mcp).
//   - SSEBaseURL: public base URL advertised by the SSE transport.
//   - ToolGroups: tool groups to expose; empty exposes every tool.
type MCPConfig struct {
	Transport  string
	SSEBaseURL string
	ToolGroups []string
}

// YahooConfig defines how the upstream provider is reached.
//
// Fields:
//   - BaseURL: host used for authenticated (crumb) calls.
//   - PublicURL: host used for the unauthenticated screener fallback endpoint.
//   - CookieURL: page that sets the session cookie before a crumb is requested.
//   - UserAgent: User-Agent header sent with every request.
//   - Timeout: per-request HTTP timeout.
//   - RateLimit: requests per second allowed against the provider.
//   - CrumbTTL: how long a crumb is reused before it is refreshed.
type YahooConfig struct {
	BaseURL   string
	PublicURL string
	CookieURL string
	UserAgent string
	Timeout   time.Duration
	RateLimit int
	CrumbTTL  time.Duration
}

// JournalConfig toggles persistence of operation calls.
type JournalConfig struct {
	Enabled bool
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DSN renders the connection settings as a postgres:// URL. Credentials are
// escaped, so passwords may contain reserved characters.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.DBName,
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {p.SSLMode}}.Encode()
	}
	return u.String()
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "20s")
	viper.SetDefault("HTTP_RATE_LIMIT", 1.0)
	viper.SetDefault("HTTP_RATE_BURST", 60)

	viper.SetDefault("MCP_TRANSPORT", "http")
	viper.SetDefault("MCP_SSE_BASE_URL", "http://localhost:8080")
	viper.SetDefault("MCP_TOOL_GROUPS", "")

	viper.SetDefault("YAHOO_BASE_URL", "https://query2.finance.yahoo.com")
	viper.SetDefault("YAHOO_PUBLIC_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("YAHOO_COOKIE_URL", "https://fc.yahoo.com")
	viper.SetDefault("YAHOO_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("YAHOO_TIMEOUT", "10s")
	viper.SetDefault("YAHOO_RATE_LIMIT", 5)
	viper.SetDefault("YAHOO_CRUMB_TTL", "30m")

	viper.SetDefault("JOURNAL_ENABLED", false)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "quotepulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			RateLimit:      viper.GetFloat64("HTTP_RATE_LIMIT"),
			RateBurst:      viper.GetInt("HTTP_RATE_BURST"),
		},
		MCP: MCPConfig{
			Transport:  viper.GetString("MCP_TRANSPORT"),
			SSEBaseURL: viper.GetString("MCP_SSE_BASE_URL"),
			ToolGroups: splitList(viper.GetString("MCP_TOOL_GROUPS")),
		},
		Yahoo: YahooConfig{
			BaseURL:   viper.GetString("YAHOO_BASE_URL"),
			PublicURL: viper.GetString("YAHOO_PUBLIC_URL"),
			CookieURL: viper.GetString("YAHOO_COOKIE_URL"),
			UserAgent: viper.GetString("YAHOO_USER_AGENT"),
			Timeout:   viper.GetDuration("YAHOO_TIMEOUT"),
			RateLimit: viper.GetInt("YAHOO_RATE_LIMIT"),
			CrumbTTL:  viper.GetDuration("YAHOO_CRUMB_TTL"),
		},
		Journal: JournalConfig{
			Enabled: viper.GetBool("JOURNAL_ENABLED"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks server and upstream fields unconditionally.
//   - Checks Postgres fields only when the call journal is enabled.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}

// mcpToolGroups are the accepted MCP_TOOL_GROUPS entries.
var mcpToolGroups = map[string]bool{"basic": true, "advanced": true, "analysis": true, "news": true}

func missingKeys(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Yahoo.BaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}
	if cfg.Yahoo.PublicURL == "" {
		missing = append(missing, "YAHOO_PUBLIC_URL")
	}
	switch cfg.MCP.Transport {
	case "stdio", "sse", "http":
	default:
		missing = append(missing, "MCP_TRANSPORT")
	}
	for _, g := range cfg.MCP.ToolGroups {
		if !mcpToolGroups[g] {
			missing = append(missing, "MCP_TOOL_GROUPS")
			break
		}
	}

	if cfg.Journal.Enabled {
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}
	return missing
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
