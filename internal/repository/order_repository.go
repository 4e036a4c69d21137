package repository

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	orderNotFound  = "Order not found"
	orderDuplicate = "Order number already exists"

	// RecentOrderLimit is the number of orders shown on the dashboard.
	RecentOrderLimit = 5
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// Transaction runs fn inside a database transaction.
func (r *OrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	defer track(ctx, "transaction")()

	return r.DB.WithContext(ctx).Transaction(fn)
}

// Create inserts the order and then its items on tx.
func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	defer track(ctx, "insert")()

	items := order.Items
	order.Items = nil
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		order.Items = items
		return translate(err, orderNotFound, orderDuplicate)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := tx.WithContext(ctx).Create(&items).Error; err != nil {
			order.Items = items
			return err
		}
	}
	order.Items = items
	return nil
}

// OrderNumberExists reports whether number is already assigned.
func (r *OrderRepository) OrderNumberExists(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	defer track(ctx, "query")()

	var count int64
	err := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// List returns every order newest first with its items.
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	defer track(ctx, "query")()

	orders := []model.Order{}
	err := r.DB.WithContext(ctx).Scopes(withItems).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// Recent returns the newest limit orders with their items.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	defer track(ctx, "query")()

	orders := []model.Order{}
	err := r.DB.WithContext(ctx).Scopes(withItems).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	defer track(ctx, "query")()

	var order model.Order
	if err := r.DB.WithContext(ctx).Scopes(withItems).First(&order, id).Error; err != nil {
		return nil, translate(err, orderNotFound, "")
	}
	return &order, nil
}

// UpdateColumn sets a single column on the order, returning NotFound when
// no order has the id.
func (r *OrderRepository) UpdateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	defer track(ctx, "update")()

	result := r.DB.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, orderNotFound, "")
	}
	return nil
}

// Delete removes the order's items and then the order on tx.
func (r *OrderRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	defer track(ctx, "delete")()

	if err := tx.WithContext(ctx).Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	result := tx.WithContext(ctx).Delete(&model.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, orderNotFound, "")
	}
	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

// SumTotalPrice returns the sum of every order's subtotal.
func (r *OrderRepository) SumTotalPrice(ctx context.Context) (decimal.Decimal, error) {
	defer track(ctx, "query")()

	var sum decimal.Decimal
	err := r.DB.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// CountItems returns the number of item rows belonging to orderID.
func (r *OrderRepository) CountItems(ctx context.Context, orderID uint) (int64, error) {
	defer track(ctx, "query")()

	var count int64
	err := r.DB.WithContext(ctx).Model(&model.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}
