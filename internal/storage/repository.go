package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/timebox/internal/model"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrInvalidSnapshot = errors.New("storage: invalid snapshot")
)

// SnapshotSink accepts whole-day snapshots. Saving the same date twice
// replaces the earlier document.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error
}

type Repository interface {
	SnapshotSink

	LoadDay(ctx context.Context, date string) (model.Snapshot, error)
	ListDays(ctx context.Context, filter DayListFilter) ([]DaySummary, error)
	DeleteDay(ctx context.Context, date string) error
}
