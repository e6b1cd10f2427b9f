package app

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/quotepulse/config"
)

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: "8080"},
		MCP:    config.MCPConfig{Transport: "http"},
		Yahoo: config.YahooConfig{
			BaseURL:   "http://127.0.0.1:1",
			PublicURL: "http://127.0.0.1:1",
		},
	}
}

func useConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = old })
}

func serve(a *App, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	cfg := config.Config{Postgres: config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329, // unlikely mapped
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}}
	db, err := InitPostgres(cfg)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

func TestInitializeApp_JournalDisabled(t *testing.T) {
	useConfig(t, testConfig())

	a, cleanup, err := InitializeApp()
	if err != nil || a == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	if a.MCP == nil || a.Calls != nil {
		t.Fatalf("unexpected components: mcp=%v calls=%v", a.MCP, a.Calls)
	}

	cases := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/api/v1/tools", http.StatusOK},
		{"/api/v1/calls", http.StatusNotFound},
	}
	for _, tc := range cases {
		if w := serve(a, http.MethodGet, tc.path); w.Code != tc.want {
			t.Fatalf("%s: status=%d want %d body=%s", tc.path, w.Code, tc.want, w.Body.String())
		}
	}

	var list struct {
		Tools []json.RawMessage `json:"tools"`
	}
	w := serve(a, http.MethodGet, "/api/v1/tools")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list.Tools) != 14 {
		t.Fatalf("expected 14 tools, got %d (%v)", len(list.Tools), err)
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Journal.Enabled = true
	cfg.Postgres = config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     54329,
		User:     "x",
		Password: "y",
		DBName:   "z",
		SSLMode:  "disable",
	}
	useConfig(t, cfg)

	a, cleanup, err := InitializeApp()
	if err == nil || a != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_MigrationFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Journal.Enabled = true
	useConfig(t, cfg)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { return errors.New("migrate failed") }
	t.Cleanup(func() {
		postgresOpener = oldOpen
		migrator = oldMigrate
	})

	if _, _, err := InitializeApp(); err == nil {
		t.Fatalf("expected migration error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_JournalEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Journal.Enabled = true
	useConfig(t, cfg)

	// Override opener to return a sqlmock DB that pings successfully
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()
	mock.ExpectQuery("SELECT id, operation").
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "operation", "arguments", "outcome", "error_kind", "error_message", "duration_ms", "request_id", "created_at",
		}))
	mock.ExpectClose()

	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { return nil }
	t.Cleanup(func() {
		postgresOpener = oldOpen
		migrator = oldMigrate
	})

	a, cleanup, err := InitializeApp()
	if err != nil || a == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	if a.Calls == nil {
		t.Fatalf("expected call repository")
	}

	if w := serve(a, http.MethodGet, "/readyz"); w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
	if w := serve(a, http.MethodGet, "/api/v1/calls"); w.Code != http.StatusOK {
		t.Fatalf("calls status=%d body=%s", w.Code, w.Body.String())
	}

	// Call cleanup and ensure it doesn't panic
	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
