package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/quotepulse/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const (
	journalMaxOpenConns = 4
	journalConnIdleTime = 5 * time.Minute
	postgresPingTimeout = 5 * time.Second
)

// InitPostgres opens the call journal database and checks it is reachable.
//
// Behavior:
//   - Connects with cfg.Postgres.DSN() through sqlOpener.
//   - Caps the pool at journalMaxOpenConns.
//   - Pings within postgresPingTimeout and closes the handle when the ping fails.
//
// Only called when the call journal is enabled.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}

	db.SetMaxOpenConns(journalMaxOpenConns)
	db.SetConnMaxIdleTime(journalConnIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal database %s:%d: %w", cfg.Postgres.Host, cfg.Postgres.Port, err)
	}
	return db, nil
}

// sqlOpener is swapped in tests for an sqlmock-backed handle.
var sqlOpener = sql.Open

// postgresOpener is swapped in InitializeApp tests to skip the real connection.
var postgresOpener = InitPostgres
