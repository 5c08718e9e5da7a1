package storage

import (
	"context"
	"errors"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// ActivityLogStorage records search activity for auditing.
type ActivityLogStorage interface {
	// Record inserts or updates the activity entry for a job.
	Record(ctx context.Context, entry models.ActivityEntry) error

	// ListByUser returns entries created by the given user, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error)

	// ListAll returns entries across all users, newest first.
	ListAll(ctx context.Context, limit int) ([]models.ActivityEntry, error)

	// Close releases the underlying connection.
	Close() error
}

// ScreenshotStore persists page captures taken during scraping and
// returns a location the capture can be retrieved from.
type ScreenshotStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
