package persistence

import (
	"context"
	"fmt"
	"time"

	"task-tracker-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend writes snapshots to a PostgreSQL table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects to dsn and makes sure the table exists.
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	b := NewPostgresBackendFromPool(pool)
	if err := b.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return b, nil
}

// NewPostgresBackendFromPool wraps an existing pool.
func NewPostgresBackendFromPool(pool *pgxpool.Pool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

// EnsureTable creates the records table if it doesn't exist.
func (b *PostgresBackend) EnsureTable(ctx context.Context) error {
	_, err := b.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tracker_records (
			id          INTEGER PRIMARY KEY,
			type        TEXT NOT NULL,
			name        TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'NEW',
			description TEXT NOT NULL DEFAULT '',
			start_time  TIMESTAMPTZ,
			duration_ns BIGINT NOT NULL DEFAULT 0,
			epic_id     INTEGER NOT NULL DEFAULT 0
		)`)
	if err != nil {
		return fmt.Errorf("create tracker_records: %w", err)
	}
	return nil
}

var pgColumns = []string{"id", "type", "name", "status", "description", "start_time", "duration_ns", "epic_id"}

// Save implements Backend.Save. The table is truncated and refilled with
// COPY inside one transaction.
func (b *PostgresBackend) Save(ctx context.Context, snap models.Snapshot) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tracker_records`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	all := snap.All()
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"tracker_records"}, pgColumns,
		pgx.CopyFromSlice(len(all), func(i int) ([]any, error) {
			r := toRow(all[i])
			return []any{r.ID, r.Type, r.Name, r.Status, r.Description, r.StartTime, r.Duration, r.EpicID}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load implements Backend.Load.
func (b *PostgresBackend) Load(ctx context.Context) (models.Snapshot, error) {
	rows, err := b.pool.Query(ctx, `
		SELECT id, type, name, status, description, start_time, duration_ns, epic_id
		FROM tracker_records ORDER BY id`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	var snap models.Snapshot
	for rows.Next() {
		var r recordRow
		var start *time.Time
		if err := rows.Scan(&r.ID, &r.Type, &r.Name, &r.Status, &r.Description, &start, &r.Duration, &r.EpicID); err != nil {
			return models.Snapshot{}, fmt.Errorf("scan record: %w", err)
		}
		r.StartTime = start
		t, err := fromRow(r)
		if err != nil {
			return models.Snapshot{}, err
		}
		snap.Put(t)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Close implements Backend.Close.
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
