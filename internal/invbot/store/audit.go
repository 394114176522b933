package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AuditEntry is one recorded ledger mutation.
type AuditEntry struct {
	ID           int64
	Timestamp    time.Time
	TraceID      string
	Actor        string
	Action       string // "update" or "set"
	Item         string
	Amount       int64 // signed delta for updates, absolute value for sets
	Result       string
	ErrorMessage sql.NullString
}

// WriteAudit records one ledger mutation.
func (s *Store) WriteAudit(ctx context.Context, traceID, actor, action, item string, amount int64, result, errorMsg string) error {
	var errNull sql.NullString
	if errorMsg != "" {
		errNull = sql.NullString{String: errorMsg, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (ts, trace_id, actor, action, item, amount, result, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), traceID, actor, action, item, amount, result, errNull,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// RecentAudit returns the most recent n audit entries, newest first.
func (s *Store) RecentAudit(ctx context.Context, n int) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, trace_id, actor, action, item, amount, result, error_message
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.TraceID, &e.Actor, &e.Action, &e.Item, &e.Amount, &e.Result, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
