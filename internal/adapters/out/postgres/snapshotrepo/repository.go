package snapshotrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/snapshot"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const source = "postgres snapshots"

// GormSnapshotRepository implements ports.SnapshotRepository with GORM.
type GormSnapshotRepository struct {
	db        *gorm.DB
	retention int
	now       func() time.Time
}

// Option configures a GormSnapshotRepository.
type Option func(*GormSnapshotRepository)

// WithRetention keeps only the newest n snapshots. n <= 0 keeps all of them.
func WithRetention(n int) Option {
	return func(r *GormSnapshotRepository) {
		r.retention = n
	}
}

// WithClock replaces time.Now for snapshot creation times.
func WithClock(now func() time.Time) Option {
	return func(r *GormSnapshotRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewGormSnapshotRepository(db *gorm.DB, opts ...Option) *GormSnapshotRepository {
	r := &GormSnapshotRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Migrate creates or updates the snapshot tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// Save inserts s as the newest snapshot and prunes those beyond the
// retention limit, all in one transaction.
func (r *GormSnapshotRepository) Save(ctx context.Context, s snapshot.Snapshot) error {
	dto := fromSnapshot(uuid.New(), r.now().UTC(), s)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		return r.prune(tx)
	})
	if err != nil {
		return errs.NewPersistenceWriteError(source, err)
	}
	return nil
}

// Load returns the newest snapshot.
func (r *GormSnapshotRepository) Load(ctx context.Context) (snapshot.Snapshot, error) {
	byPosition := func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}

	var dto SnapshotDTO
	err := r.db.WithContext(ctx).
		Preload("Accounts", byPosition).
		Preload("Accounts.History", byPosition).
		Preload("Merchants", byPosition).
		Preload("Merchants.Items", byPosition).
		Preload("Orders", byPosition).
		Preload("Orders.Lines", byPosition).
		Order("created_at DESC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snapshot.Snapshot{}, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(source, err)
	}

	s, err := toSnapshot(dto)
	if err != nil {
		return snapshot.Snapshot{}, errs.NewPersistenceReadError(source, err)
	}
	return s, nil
}

// Count returns how many snapshots are stored.
func (r *GormSnapshotRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&SnapshotDTO{}).Count(&n).Error; err != nil {
		return 0, errs.NewPersistenceReadError(source, err)
	}
	return n, nil
}

func (r *GormSnapshotRepository) prune(tx *gorm.DB) error {
	if r.retention <= 0 {
		return nil
	}

	var stale []uuid.UUID
	err := tx.Model(&SnapshotDTO{}).
		Order("created_at DESC").
		Offset(r.retention).
		Pluck("id", &stale).Error
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	// Child rows go with their snapshot through ON DELETE CASCADE.
	return tx.Where("id IN ?", stale).Delete(&SnapshotDTO{}).Error
}
