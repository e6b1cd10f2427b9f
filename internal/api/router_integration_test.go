//go:build integration
// +build integration

package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/quotepulse/config"
	"github.com/guttosm/quotepulse/internal/app"
)

func startPG(t *testing.T) (host string, port nat.Port, terminate func()) {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "quotepulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(h string, p nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=quotepulse sslmode=disable", h, p.Port())
		}).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	h, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return h, mp, func() { _ = c.Terminate(context.Background()) }
}

func TestAPI_E2E_InvocationsAreJournaled(t *testing.T) {
	host, port, term := startPG(t)
	defer term()

	// Point application config to containerized DB; upstream is never reached
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		MCP:     config.MCPConfig{Transport: "http"},
		Yahoo:   config.YahooConfig{BaseURL: "http://127.0.0.1:1", PublicURL: "http://127.0.0.1:1"},
		Journal: config.JournalConfig{Enabled: true},
		Postgres: config.PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			User:     "postgres",
			Password: "postgres",
			DBName:   "quotepulse",
			SSLMode:  "disable",
		},
	}

	a, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	// A validation failure is answered without calling upstream
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/get_quote", strings.NewReader(`{}`))
	req.Header.Set("X-Request-ID", "e2e-1")
	a.Router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	// The journal flushes asynchronously
	var body struct {
		Calls []struct {
			Operation string `json:"operation"`
			Outcome   string `json:"outcome"`
			ErrorKind string `json:"error_kind"`
			RequestID string `json:"request_id"`
		} `json:"calls"`
	}
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		w = httptest.NewRecorder()
		a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/calls?operation=get_quote", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("calls status: %d body=%s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if len(body.Calls) > 0 {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	if len(body.Calls) != 1 {
		t.Fatalf("expected one journaled call, got %d", len(body.Calls))
	}
	got := body.Calls[0]
	if got.Operation != "get_quote" || got.Outcome != "error" || got.ErrorKind != "validation" || got.RequestID != "e2e-1" {
		t.Fatalf("unexpected call record: %+v", got)
	}
}
