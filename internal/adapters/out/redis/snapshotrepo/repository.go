// Package snapshotrepo keeps the latest store snapshot under one Redis key,
// encoded with a snapshot codec.
package snapshotrepo

import (
	"bytes"
	"context"
	"errors"

	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is used when no key is configured.
const DefaultKey = "marketplace:snapshot"

type Repository struct {
	client redis.Cmdable
	key    string
	codec  ports.Codec
}

func NewRepository(client redis.Cmdable, key string, codec ports.Codec) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{client: client, key: key, codec: codec}
}

// Save overwrites the key with the encoded snapshot. The key never expires.
func (r *Repository) Save(ctx context.Context, s snapshot.Snapshot) error {
	var buf bytes.Buffer
	if err := r.codec.Encode(&buf, s); err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, buf.Bytes(), 0).Err(); err != nil {
		return errs.NewPersistenceWriteError("redis key "+r.key, err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot.Snapshot{}, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError("redis key "+r.key, err)
	}

	return r.codec.Decode(bytes.NewReader(data))
}
