// Package filestore keeps store snapshots in a single local file written
// with a snapshot codec.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// Repository implements ports.SnapshotRepository on one file.
//
// Save encodes into a temporary file in the target directory and renames it
// over the target, so a crash mid-save leaves the previous snapshot intact.
type Repository struct {
	path  string
	codec ports.Codec
}

func NewRepository(path string, codec ports.Codec) *Repository {
	return &Repository{path: path, codec: codec}
}

// Path returns the target file.
func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(ctx context.Context, s snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errs.NewPersistenceWriteError(r.path, err)
	}

	var buf bytes.Buffer
	if err := r.codec.Encode(&buf, s); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.NewPersistenceWriteError(r.path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return errs.NewPersistenceWriteError(r.path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return errs.NewPersistenceWriteError(r.path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errs.NewPersistenceWriteError(r.path, err)
	}
	if err = tmp.Close(); err != nil {
		return errs.NewPersistenceWriteError(r.path, err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return errs.NewPersistenceWriteError(r.path, err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(r.path, err)
	}

	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot.Snapshot{}, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(r.path, err)
	}
	defer f.Close()

	return r.codec.Decode(f)
}
