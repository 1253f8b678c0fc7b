package ports

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/snapshot"
)

// ErrSnapshotNotFound is returned by Load when nothing has been saved yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository persists whole-store snapshots. Each Save replaces what
// Load returns; there is no partial save.
type SnapshotRepository interface {
	Save(ctx context.Context, s snapshot.Snapshot) error

	// Load returns the most recently saved snapshot, or ErrSnapshotNotFound.
	Load(ctx context.Context) (snapshot.Snapshot, error)
}
