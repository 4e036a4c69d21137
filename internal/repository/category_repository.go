package repository

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
	"gorm.io/gorm"
)

const (
	categoryNotFound  = "Category not found"
	categoryDuplicate = "Category already exists"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// List returns every non-deleted category by display order, then name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	defer track(ctx, "query")()

	categories := []model.Category{}
	err := r.DB.WithContext(ctx).
		Order("display_order ASC").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	defer track(ctx, "query")()

	var category model.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, categoryNotFound, "")
	}
	return &category, nil
}

// NameTaken reports whether any category row, deleted or not, already uses
// name. Soft-deleted rows keep their unique index entry.
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&model.Category{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	defer track(ctx, "insert")()

	return translate(r.DB.WithContext(ctx).Create(category).Error, categoryNotFound, categoryDuplicate)
}

func (r *CategoryRepository) Save(ctx context.Context, category *model.Category) error {
	defer track(ctx, "update")()

	return translate(r.DB.WithContext(ctx).Save(category).Error, categoryNotFound, categoryDuplicate)
}

// SoftDelete marks the category deleted. Deleting an absent or already
// deleted category is NotFound.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id uint) error {
	defer track(ctx, "delete")()

	result := r.DB.WithContext(ctx).Delete(&model.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, categoryNotFound, "")
	}
	return nil
}

// Count returns the number of non-deleted categories.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Category{}).Count(&count).Error
	return count, err
}
