//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/guttosm/quotepulse/internal/domain/models"
	_ "github.com/lib/pq"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
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
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=quotepulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "quotepulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openMigratedDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func record(op, outcome string, at time.Time) models.CallRecord {
	rec := models.CallRecord{
		ID:         uuid.NewString(),
		Operation:  op,
		Arguments:  json.RawMessage(`{"symbol":"AAPL"}`),
		Outcome:    outcome,
		DurationMs: 12,
		CreatedAt:  at,
	}
	if outcome == models.OutcomeError {
		rec.ErrorKind = "upstream_unavailable"
		rec.ErrorMessage = op + ": connection reset"
	}
	return rec
}

func TestCallRepository_Integration(t *testing.T) {
	dsn, term := startPostgres(t)
	defer term()
	conn := openMigratedDB(t, dsn)
	defer conn.Close()

	ctx := context.Background()
	repo := NewCallRepository(conn)
	base := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)

	if err := repo.RecordCall(ctx, record("get_quote", models.OutcomeOK, base)); err != nil {
		t.Fatalf("record: %v", err)
	}
	batch := []models.CallRecord{
		record("get_news", models.OutcomeOK, base.Add(time.Minute)),
		record("get_quote", models.OutcomeError, base.Add(2*time.Minute)),
	}
	if err := repo.RecordCalls(ctx, batch); err != nil {
		t.Fatalf("record batch: %v", err)
	}

	all, err := repo.ListRecentCalls(ctx, "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Operation != "get_quote" || all[0].Outcome != models.OutcomeError {
		t.Fatalf("unexpected list: %+v", all)
	}
	if all[0].ErrorMessage != "get_quote: connection reset" || all[1].ErrorKind != "" {
		t.Fatalf("error columns not round-tripped: %+v", all[:2])
	}

	quotes, err := repo.ListRecentCalls(ctx, "get_quote", 10)
	if err != nil || len(quotes) != 2 {
		t.Fatalf("filtered list: %v %+v", err, quotes)
	}

	n, err := repo.PurgeBefore(ctx, base.Add(90*time.Second))
	if err != nil || n != 2 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
