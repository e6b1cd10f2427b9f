package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guttosm/quotepulse/db"
	"github.com/guttosm/quotepulse/internal/domain/models"
	pq "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
)

// CallRepository defines the call journal's DB operations.
type CallRepository interface {
	RecordCall(ctx context.Context, rec models.CallRecord) error
	RecordCalls(ctx context.Context, recs []models.CallRecord) error
	ListRecentCalls(ctx context.Context, operation string, limit int) ([]models.CallRecord, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Ping(ctx context.Context) error
}

type callRepository struct {
	db *sql.DB
}

// NewCallRepository wraps an open Postgres handle.
func NewCallRepository(db *sql.DB) CallRepository {
	return &callRepository{db: db}
}

// Migrate applies the embedded goose migrations to db.
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(db.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("migrate call journal: %w", err)
	}
	return nil
}

const insertCall = `
	INSERT INTO call_log (id, operation, arguments, outcome, error_kind, error_message, duration_ms, request_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// RecordCall inserts one record.
func (r *callRepository) RecordCall(ctx context.Context, rec models.CallRecord) error {
	_, err := r.db.ExecContext(ctx, insertCall,
		rec.ID,
		rec.Operation,
		string(argumentsOf(rec)),
		rec.Outcome,
		nullString(rec.ErrorKind),
		nullString(rec.ErrorMessage),
		rec.DurationMs,
		nullString(rec.RequestID),
		rec.CreatedAt,
	)
	return err
}

// RecordCalls bulk-loads records with COPY in a single transaction.
func (r *callRepository) RecordCalls(ctx context.Context, recs []models.CallRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"call_log",
		"id",
		"operation",
		"arguments",
		"outcome",
		"error_kind",
		"error_message",
		"duration_ms",
		"request_id",
		"created_at",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.ID,
			rec.Operation,
			string(argumentsOf(rec)),
			rec.Outcome,
			nullString(rec.ErrorKind),
			nullString(rec.ErrorMessage),
			rec.DurationMs,
			nullString(rec.RequestID),
			rec.CreatedAt,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ListRecentCalls returns up to limit records, newest first. An empty
// operation matches every operation.
func (r *callRepository) ListRecentCalls(ctx context.Context, operation string, limit int) ([]models.CallRecord, error) {
	query := `
		SELECT id, operation, arguments, outcome, error_kind, error_message, duration_ms, request_id, created_at
		FROM call_log`
	args := []any{}
	if operation != "" {
		args = append(args, operation)
		query += fmt.Sprintf(" WHERE operation = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.CallRecord{}
	for rows.Next() {
		var (
			rec       models.CallRecord
			arguments []byte
			kind, msg sql.NullString
			requestID sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Operation, &arguments, &rec.Outcome, &kind, &msg, &rec.DurationMs, &requestID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Arguments = json.RawMessage(arguments)
		rec.ErrorKind = kind.String
		rec.ErrorMessage = msg.String
		rec.RequestID = requestID.String
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeBefore deletes records created before cutoff and reports how many.
func (r *callRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM call_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ping checks connectivity.
func (r *callRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func argumentsOf(rec models.CallRecord) json.RawMessage {
	if len(rec.Arguments) == 0 || !json.Valid(rec.Arguments) {
		return json.RawMessage("{}")
	}
	return rec.Arguments
}

// nullString maps "" to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
