package repository

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	productNotFound  = "Product not found"
	productDuplicate = "Product with this SKU already exists"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// withCategory preloads the product's category, including soft-deleted ones:
// the row still exists and keeps its name for historical products.
func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category", func(tx *gorm.DB) *gorm.DB {
		return tx.Unscoped()
	})
}

// List returns a page of non-deleted products, newest first.
func (r *ProductRepository) List(ctx context.Context, filter ListFilter) (Page[model.Product], error) {
	defer track(ctx, "query")()

	page := normalizePage(filter.Page)
	query := r.DB.WithContext(ctx).Model(&model.Product{})
	if filter.Keyword != "" {
		query = query.Where(likeClause("products.name"), containsPattern(filter.Keyword))
	}
	if filter.CategoryName != "" {
		matching := r.DB.WithContext(ctx).Unscoped().Model(&model.Category{}).
			Select("id").
			Where(likeClause("name"), containsPattern(filter.CategoryName))
		query = query.Where("products.category_id IN (?)", matching)
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return Page[model.Product]{}, err
	}
	if pastLastPage(page, ProductPageSize, count) {
		return newPage[model.Product](nil, page, ProductPageSize, count), nil
	}

	var products []model.Product
	err := query.Scopes(withCategory, paginate(page, ProductPageSize)).
		Order("products.created_at DESC").
		Order("products.id DESC").
		Find(&products).Error
	if err != nil {
		return Page[model.Product]{}, err
	}
	for i := range products {
		products[i].ResolveCategoryName()
	}
	return newPage(products, page, ProductPageSize, count), nil
}

// ListLowStock returns non-deleted products at or below their reorder level.
func (r *ProductRepository) ListLowStock(ctx context.Context) ([]model.Product, error) {
	defer track(ctx, "query")()

	products := []model.Product{}
	err := r.DB.WithContext(ctx).Scopes(withCategory).
		Where("stock_quantity <= min_stock_level").
		Order("stock_quantity ASC").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ResolveCategoryName()
	}
	return products, nil
}

// CountLowStock returns the number of products ListLowStock would return.
func (r *ProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Product{}).
		Where("stock_quantity <= min_stock_level").
		Count(&count).Error
	return count, err
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	defer track(ctx, "query")()

	var product model.Product
	if err := r.DB.WithContext(ctx).Scopes(withCategory).First(&product, id).Error; err != nil {
		return nil, translate(err, productNotFound, "")
	}
	product.ResolveCategoryName()
	return &product, nil
}

// GetByIDs loads the non-deleted products among ids, keyed by id.
// It runs on tx so order creation snapshots inside its transaction.
func (r *ProductRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) (map[uint]model.Product, error) {
	defer track(ctx, "query")()

	if tx == nil {
		tx = r.DB
	}
	var products []model.Product
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// SKUTaken reports whether any product row, deleted or not, uses sku.
func (r *ProductRepository) SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&model.Product{}).
		Where("sku = ? AND id <> ?", sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	defer track(ctx, "insert")()

	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(product).Error
	return translate(err, productNotFound, productDuplicate)
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	defer track(ctx, "update")()

	err := r.DB.WithContext(ctx).Omit(clause.Associations).Save(product).Error
	return translate(err, productNotFound, productDuplicate)
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id uint) error {
	defer track(ctx, "delete")()

	result := r.DB.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, productNotFound, "")
	}
	return nil
}

// Count returns the number of non-deleted products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}
