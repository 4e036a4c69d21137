package repository

import (
	"context"
	"strings"

	"github.com/White1313devil/medicals/internal/model"
	"gorm.io/gorm"
)

// keywordScope matches keyword as a case-insensitive substring of any column.
func keywordScope(keyword string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if keyword == "" {
			return db
		}
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		pattern := containsPattern(keyword)
		for i, column := range columns {
			clauses[i] = likeClause(column)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// listPage runs a counted, paginated, newest-first listing of T.
func listPage[T any](ctx context.Context, db *gorm.DB, filter ListFilter, pageSize int, columns ...string) (Page[T], error) {
	defer track(ctx, "query")()

	page := normalizePage(filter.Page)
	var zero T
	query := db.WithContext(ctx).Model(&zero).
		Scopes(keywordScope(filter.Keyword, columns...)).
		Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return Page[T]{}, err
	}
	if pastLastPage(page, pageSize, count) {
		return newPage[T](nil, page, pageSize, count), nil
	}

	var items []T
	err := query.Scopes(paginate(page, pageSize)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return Page[T]{}, err
	}
	return newPage(items, page, pageSize, count), nil
}

// emailTaken reports whether a non-deleted row of T other than excludeID uses email.
func emailTaken[T any](ctx context.Context, db *gorm.DB, email string, excludeID uint) (bool, error) {
	defer track(ctx, "query")()

	var zero T
	var count int64
	err := db.WithContext(ctx).Model(&zero).
		Where("LOWER(email) = LOWER(?) AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func softDelete[T any](ctx context.Context, db *gorm.DB, id uint, notFound string) error {
	defer track(ctx, "delete")()

	var zero T
	result := db.WithContext(ctx).Delete(&zero, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, notFound, "")
	}
	return nil
}

const customerNotFound = "Customer not found"

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) List(ctx context.Context, filter ListFilter) (Page[model.Customer], error) {
	return listPage[model.Customer](ctx, r.DB, filter, CustomerPageSize, "name", "email", "phone")
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*model.Customer, error) {
	defer track(ctx, "query")()

	var customer model.Customer
	if err := r.DB.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err, customerNotFound, "")
	}
	return &customer, nil
}

func (r *CustomerRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return emailTaken[model.Customer](ctx, r.DB, email, excludeID)
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	defer track(ctx, "insert")()

	return r.DB.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) Save(ctx context.Context, customer *model.Customer) error {
	defer track(ctx, "update")()

	return r.DB.WithContext(ctx).Save(customer).Error
}

func (r *CustomerRepository) SoftDelete(ctx context.Context, id uint) error {
	return softDelete[model.Customer](ctx, r.DB, id, customerNotFound)
}

const supplierNotFound = "Supplier not found"

type SupplierRepository struct {
	DB *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{DB: db}
}

func (r *SupplierRepository) List(ctx context.Context, filter ListFilter) (Page[model.Supplier], error) {
	return listPage[model.Supplier](ctx, r.DB, filter, SupplierPageSize, "name", "contact_person", "email", "phone")
}

func (r *SupplierRepository) GetByID(ctx context.Context, id uint) (*model.Supplier, error) {
	defer track(ctx, "query")()

	var supplier model.Supplier
	if err := r.DB.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, translate(err, supplierNotFound, "")
	}
	return &supplier, nil
}

func (r *SupplierRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return emailTaken[model.Supplier](ctx, r.DB, email, excludeID)
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	defer track(ctx, "insert")()

	return r.DB.WithContext(ctx).Create(supplier).Error
}

func (r *SupplierRepository) Save(ctx context.Context, supplier *model.Supplier) error {
	defer track(ctx, "update")()

	return r.DB.WithContext(ctx).Save(supplier).Error
}

func (r *SupplierRepository) SoftDelete(ctx context.Context, id uint) error {
	return softDelete[model.Supplier](ctx, r.DB, id, supplierNotFound)
}
