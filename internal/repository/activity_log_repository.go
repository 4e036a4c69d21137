package repository

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
	"gorm.io/gorm"
)

// Activity log listing bounds.
const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500
)

// ActivityLogRepository only appends and lists; entries are never changed.
type ActivityLogRepository struct {
	DB *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, entry *model.ActivityLog) error {
	defer track(ctx, "insert")()

	return r.DB.WithContext(ctx).Create(entry).Error
}

// List returns the newest entries. limit is clamped to (0, MaxActivityLimit].
func (r *ActivityLogRepository) List(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	defer track(ctx, "query")()

	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	entries := []model.ActivityLog{}
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
