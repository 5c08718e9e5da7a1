package storage

import (
	"context"

	"github.com/XOOPO/TrackingTurnover/internal/pkg/models"
)

var _ ActivityLogStorage = (*NoopActivityLog)(nil)

// NoopActivityLog discards entries. Used when no DSN is configured so the
// service still runs without a database.
type NoopActivityLog struct{}

func (NoopActivityLog) Record(_ context.Context, _ models.ActivityEntry) error { return nil }

func (NoopActivityLog) ListByUser(_ context.Context, _ string, _ int) ([]models.ActivityEntry, error) {
	return nil, nil
}

func (NoopActivityLog) ListAll(_ context.Context, _ int) ([]models.ActivityEntry, error) {
	return nil, nil
}

func (NoopActivityLog) Close() error { return nil }
