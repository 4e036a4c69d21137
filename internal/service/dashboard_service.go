package service

import (
	"context"

	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts    int64           `json:"totalProducts"`
	TotalOrders      int64           `json:"totalOrders"`
	TotalCategories  int64           `json:"totalCategories"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	LowStockProducts int64           `json:"lowStockProducts"`
	RecentOrders     []model.Order   `json:"recentOrders"`
}

type DashboardService struct {
	Products   *repository.ProductRepository
	Categories *repository.CategoryRepository
	Orders     *repository.OrderRepository
}

func NewDashboardService(products *repository.ProductRepository, categories *repository.CategoryRepository, orders *repository.OrderRepository) *DashboardService {
	return &DashboardService{Products: products, Categories: categories, Orders: orders}
}

func (s *DashboardService) Stats(ctx context.Context) (_ *DashboardStats, err error) {
	ctx, span := startSpan(ctx, "dashboard.stats")
	defer func() { endSpan(span, err) }()

	stats := &DashboardStats{}
	if stats.TotalProducts, err = s.Products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.Orders.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSales, err = s.Orders.SumTotalPrice(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.Products.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.Orders.Recent(ctx, repository.RecentOrderLimit); err != nil {
		return nil, err
	}
	return stats, nil
}
