package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/config"
	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

var _ ActivityLogStorage = (*PostgresActivityLog)(nil)

// PostgresActivityLog stores activity entries in PostgreSQL.
type PostgresActivityLog struct {
	db *sql.DB
}

// NewPostgresActivityLog opens a connection and ensures the schema exists.
func NewPostgresActivityLog(cfg *config.PostgresConfig) (*PostgresActivityLog, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresActivityLog{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("postgres activity log initialized")
	return s, nil
}

func (s *PostgresActivityLog) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS activity_logs (
		id SERIAL PRIMARY KEY,
		job_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(100) NOT NULL,
		player_id VARCHAR(100) NOT NULL,
		provider VARCHAR(50) NOT NULL,
		brand VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		result_data TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(job_id)
	);

	CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id ON activity_logs(user_id);
	CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs(created_at DESC);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Record upserts the entry keyed by job ID: the pending row written when a
// search starts is overwritten with the terminal status when it finishes.
func (s *PostgresActivityLog) Record(ctx context.Context, entry models.ActivityEntry) error {
	query := `
	INSERT INTO activity_logs (job_id, user_id, player_id, provider, brand, status, error_message, result_data, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (job_id) DO UPDATE SET
		status = EXCLUDED.status,
		error_message = EXCLUDED.error_message,
		result_data = EXCLUDED.result_data
	`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		entry.JobID, entry.UserID, entry.PlayerID, entry.Provider, entry.Brand,
		string(entry.Status), entry.ErrorMessage, entry.ResultData, createdAt)
	if err != nil {
		return fmt.Errorf("failed to record activity entry: %w", err)
	}
	return nil
}

// ListByUser returns entries created by the given user, newest first.
func (s *PostgresActivityLog) ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error) {
	query := `
	SELECT id, job_id, user_id, player_id, provider, brand, status, error_message, result_data, created_at
	FROM activity_logs
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query activity entries: %w", err)
	}
	defer rows.Close()

	return scanActivityEntries(rows)
}

// ListAll returns entries across all users, newest first.
func (s *PostgresActivityLog) ListAll(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	query := `
	SELECT id, job_id, user_id, player_id, provider, brand, status, error_message, result_data, created_at
	FROM activity_logs
	ORDER BY created_at DESC
	LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query activity entries: %w", err)
	}
	defer rows.Close()

	return scanActivityEntries(rows)
}

func scanActivityEntries(rows *sql.Rows) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		var status string
		if err := rows.Scan(&e.ID, &e.JobID, &e.UserID, &e.PlayerID, &e.Provider, &e.Brand,
			&status, &e.ErrorMessage, &e.ResultData, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		e.Status = models.ActivityStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity entries: %w", err)
	}
	return entries, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}

// Close closes the database connection.
func (s *PostgresActivityLog) Close() error {
	return s.db.Close()
}
