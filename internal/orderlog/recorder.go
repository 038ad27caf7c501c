package orderlog

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/obs"
)

// Recorder persists order log entries to postgres.
type Recorder struct {
	Pool *pgxpool.Pool
}

// Record inserts the entry. Re-delivered tasks are idempotent on the entry id.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO order_messages (id, recipient, body, total_price, total_items, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Recipient, e.Text, e.TotalPrice, e.TotalItems, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("orderlog: record: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *Recorder) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT id, recipient, body, total_price, total_items, created_at
		 FROM order_messages ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("orderlog: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Text, &e.TotalPrice, &e.TotalItems, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("orderlog: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Worker consumes record tasks from asynq.
type Worker struct {
	Recorder *Recorder
	Logger   zerolog.Logger
}

// HandleRecord processes one orderlog:record task.
func (w Worker) HandleRecord(ctx context.Context, task *asynq.Task) error {
	entry, err := DecodeRecordTask(task)
	if err != nil {
		// A payload that cannot be decoded will never succeed; drop it.
		w.Logger.Error().Err(err).Msg("discard malformed orderlog task")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err := w.Recorder.Record(ctx, entry); err != nil {
		return err
	}
	if obs.OrderLogRecordedTotal != nil {
		obs.OrderLogRecordedTotal.Inc()
	}
	w.Logger.Info().
		Str("entry_id", entry.ID).
		Str("recipient", entry.Recipient).
		Int64("total_price", entry.TotalPrice).
		Msg("order message recorded")
	return nil
}
