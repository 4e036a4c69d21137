package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/pricing"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/White1313devil/medicals/prometheus"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ProductInput is used for both create and patch; nil fields are left unchanged.
type ProductInput struct {
	Name          *string
	Description   *string
	SKU           *string
	Rate          *decimal.Decimal
	Discount      *decimal.Decimal
	CategoryID    *uint
	InStock       *bool
	StockQuantity *int
	MinStockLevel *int
	Manufacturer  *string
	ExpiryDate    *time.Time
	BatchNumber   *string
	ImageURL      *string
}

type ProductService struct {
	Products   *repository.ProductRepository
	Categories *repository.CategoryRepository
	Audit      *Auditor
}

func NewProductService(products *repository.ProductRepository, categories *repository.CategoryRepository, audit *Auditor) *ProductService {
	return &ProductService{Products: products, Categories: categories, Audit: audit}
}

func (s *ProductService) List(ctx context.Context, filter repository.ListFilter) (repository.Page[model.Product], error) {
	ctx, span := startSpan(ctx, "product.list",
		attribute.String("filter.keyword", filter.Keyword),
		attribute.String("filter.category", filter.CategoryName),
		attribute.Int("filter.page", filter.Page))
	page, err := s.Products.List(ctx, filter)
	endSpan(span, err)
	return page, err
}

func (s *ProductService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	ctx, span := startSpan(ctx, "product.low_stock")
	products, err := s.Products.ListLowStock(ctx)
	endSpan(span, err)
	return products, err
}

func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	ctx, span := startSpan(ctx, "product.get", idAttr(id))
	product, err := s.Products.GetByID(ctx, id)
	endSpan(span, err)
	return product, err
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (_ *model.Product, err error) {
	ctx, span := startSpan(ctx, "product.create")
	defer func() { endSpan(span, err) }()

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Rate == nil || in.CategoryID == nil || *in.CategoryID == 0 {
		return nil, apperror.Validation("Validation Error: name, rate, and categoryId are required")
	}

	product := &model.Product{
		Discount: decimal.Zero,
		InStock:  true,
	}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}

	if err := s.Products.Create(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("product", "create")
	s.Audit.Record(ctx, ActionCreate, "product", product.ID, fmt.Sprintf("Created product %q", product.Name))
	logger.FromContext(ctx).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("final_price", product.FinalPrice.StringFixed(pricing.Precision)))
	return s.Products.GetByID(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (_ *model.Product, err error) {
	ctx, span := startSpan(ctx, "product.update", idAttr(id))
	defer func() { endSpan(span, err) }()

	product, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.Validation("Product name cannot be empty")
	}

	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}
	product.Category = nil

	if err := s.Products.Save(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordCatalogOperation("product", "update")
	s.Audit.Record(ctx, ActionUpdate, "product", product.ID, fmt.Sprintf("Updated product %q", product.Name))
	return s.Products.GetByID(ctx, product.ID)
}

func (s *ProductService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "product.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	if err := s.Products.SoftDelete(ctx, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("product", "delete")
	s.Audit.Record(ctx, ActionDelete, "product", id, "Deleted product")
	return nil
}

// apply copies the set fields of in onto product, validating references and
// recomputing the final price when rate or discount change.
func (s *ProductService) apply(ctx context.Context, product *model.Product, in ProductInput) error {
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.SKU != nil {
		sku := optionalString(*in.SKU)
		if sku != nil && (product.SKU == nil || *product.SKU != *sku) {
			taken, err := s.Products.SKUTaken(ctx, *sku, product.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperror.Duplicate("Product with this SKU already exists")
			}
		}
		product.SKU = sku
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if _, err := s.Categories.GetByID(ctx, *in.CategoryID); err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return apperror.Validation("Category not found")
			}
			return err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.InStock != nil {
		product.InStock = *in.InStock
	}
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return apperror.Validation("Stock quantity must be a non-negative number")
		}
		product.StockQuantity = *in.StockQuantity
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return apperror.Validation("Minimum stock level must be a non-negative number")
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.Manufacturer != nil {
		product.Manufacturer = *in.Manufacturer
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	if in.BatchNumber != nil {
		product.BatchNumber = *in.BatchNumber
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}

	if in.Rate != nil || in.Discount != nil {
		if in.Rate != nil {
			product.Rate = pricing.Round(*in.Rate)
		}
		if in.Discount != nil {
			product.Discount = pricing.Round(*in.Discount)
		}
		finalPrice, err := pricing.FinalPrice(product.Rate, product.Discount)
		if err != nil {
			return err
		}
		product.FinalPrice = finalPrice
	}
	return nil
}
