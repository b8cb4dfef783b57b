package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/RRPsystem/wbctx/internal/domain"
	"github.com/RRPsystem/wbctx/internal/observability"
)

var (
	ErrContextNotFound      = errors.New("context not found")
	ErrDuplicateContextID   = errors.New("context id already exists")
	ErrContextNotConsumable = errors.New("context is expired or already used")
)

type ContextRepository interface {
	Create(ctx context.Context, entry *domain.ContextEntry) error
	FindByID(ctx context.Context, id string) (*domain.ContextEntry, error)
	// Consume flips used to true for a live, unused entry in a single
	// conditional update, so at most one concurrent redemption wins.
	Consume(ctx context.Context, id string, now time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type GormContextRepository struct{ db *gorm.DB }

func NewContextRepository(db *gorm.DB) ContextRepository {
	return &GormContextRepository{db: db}
}

func (r *GormContextRepository) Create(ctx context.Context, entry *domain.ContextEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(ctx, "context_entry", "create", "duplicate")
			return ErrDuplicateContextID
		}
		observability.RecordRepositoryOperation(ctx, "context_entry", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "context_entry", "create", "success")
	return nil
}

func (r *GormContextRepository) FindByID(ctx context.Context, id string) (*domain.ContextEntry, error) {
	var entry domain.ContextEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "context_entry", "find_by_id", "not_found")
			return nil, ErrContextNotFound
		}
		observability.RecordRepositoryOperation(ctx, "context_entry", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "context_entry", "find_by_id", "success")
	return &entry, nil
}

func (r *GormContextRepository) Consume(ctx context.Context, id string, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.ContextEntry{}).
		Where("id = ? AND used = ? AND expires_at > ?", id, false, now).
		Updates(map[string]any{"used": true, "used_at": now})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "context_entry", "consume", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "context_entry", "consume", "rejected")
		return ErrContextNotConsumable
	}
	observability.RecordRepositoryOperation(ctx, "context_entry", "consume", "success")
	return nil
}

func (r *GormContextRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&domain.ContextEntry{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "context_entry", "delete_expired", "error")
		return 0, res.Error
	}
	observability.RecordRepositoryOperation(ctx, "context_entry", "delete_expired", "success")
	return res.RowsAffected, nil
}
