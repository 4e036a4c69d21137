package repository

import (
	"context"
	"time"

	"github.com/White1313devil/medicals/internal/model"
	"gorm.io/gorm"
)

const (
	adminNotFound  = "Admin not found"
	adminDuplicate = "Admin with this username or email already exists"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// FindByIdentifier looks up a non-deleted admin whose username or email
// equals identifier.
func (r *AdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Admin, error) {
	defer track(ctx, "query")()

	var admin model.Admin
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		Order("id ASC").
		First(&admin).Error
	if err != nil {
		return nil, translate(err, adminNotFound, "")
	}
	return &admin, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	defer track(ctx, "query")()

	var admin model.Admin
	if err := r.DB.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err, adminNotFound, "")
	}
	return &admin, nil
}

// UsernameTaken checks every admin row, deleted or not.
func (r *AdminRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&model.Admin{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken checks every admin row, deleted or not.
func (r *AdminRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&model.Admin{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	defer track(ctx, "insert")()

	return translate(r.DB.WithContext(ctx).Create(admin).Error, adminNotFound, adminDuplicate)
}

func (r *AdminRepository) Save(ctx context.Context, admin *model.Admin) error {
	defer track(ctx, "update")()

	return translate(r.DB.WithContext(ctx).Save(admin).Error, adminNotFound, adminDuplicate)
}

// TouchLastLogin records a successful login at t.
func (r *AdminRepository) TouchLastLogin(ctx context.Context, id uint, t time.Time) error {
	defer track(ctx, "update")()

	return r.DB.WithContext(ctx).Model(&model.Admin{}).
		Where("id = ?", id).
		UpdateColumn("last_login", t).Error
}
