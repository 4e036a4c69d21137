package service

import (
	"context"
	"fmt"
	"math/rand/v2"
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
	"gorm.io/gorm"
)

// orderNumberAttempts bounds the retries when a generated number is taken.
const orderNumberAttempts = 5

// OrderItemInput is one requested line. Lines that name a product are priced
// from the live catalog; the rest must carry their own name and price.
type OrderItemInput struct {
	ProductID   *uint
	ProductName string
	Quantity    int
	Price       *decimal.Decimal
	Discount    decimal.Decimal
}

type CreateOrderInput struct {
	CustomerID      *uint
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   model.PaymentMethod
	DeliveryDate    *time.Time
	Notes           string
	DiscountAmount  decimal.Decimal
	Items           []OrderItemInput
}

type OrderService struct {
	Orders   *repository.OrderRepository
	Products *repository.ProductRepository
	Audit    *Auditor
	TaxRate  decimal.Decimal

	// NewOrderNumber and Now are replaceable in tests.
	NewOrderNumber func(time.Time) string
	Now            func() time.Time
}

func NewOrderService(orders *repository.OrderRepository, products *repository.ProductRepository, audit *Auditor, taxRate decimal.Decimal) *OrderService {
	return &OrderService{
		Orders:         orders,
		Products:       products,
		Audit:          audit,
		TaxRate:        taxRate,
		NewOrderNumber: RandomOrderNumber,
		Now:            time.Now,
	}
}

// RandomOrderNumber returns ORD-YYYYMMDD-NNNNNN for the day of t.
func RandomOrderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", t.Format("20060102"), rand.IntN(1000000))
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	ctx, span := startSpan(ctx, "order.list")
	orders, err := s.Orders.List(ctx)
	endSpan(span, err)
	return orders, err
}

func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	ctx, span := startSpan(ctx, "order.get", idAttr(id))
	order, err := s.Orders.GetByID(ctx, id)
	endSpan(span, err)
	return order, err
}

// Create validates, prices and stores a new order with its item snapshots in
// a single transaction.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (_ *model.Order, err error) {
	ctx, span := startSpan(ctx, "order.create", attribute.Int("order.items", len(in.Items)))
	defer func() { endSpan(span, err) }()

	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		return nil, apperror.Validation("Customer name is required")
	}
	if len(in.Items) == 0 {
		return nil, apperror.Validation("Order must contain at least one item")
	}
	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentCash
	}
	if !method.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid payment method %q", method))
	}

	order := &model.Order{
		CustomerID:      in.CustomerID,
		CustomerName:    customerName,
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerAddress: in.CustomerAddress,
		Status:          model.OrderStatusPlaced,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   method,
		DeliveryDate:    in.DeliveryDate,
		Notes:           in.Notes,
	}

	err = s.Orders.Transaction(ctx, func(tx *gorm.DB) error {
		items, err := s.snapshotItems(ctx, tx, in.Items)
		if err != nil {
			return err
		}
		if err := s.price(order, items, in.DiscountAmount); err != nil {
			return err
		}
		order.OrderNumber, err = s.uniqueOrderNumber(ctx, tx)
		if err != nil {
			return err
		}
		return s.Orders.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	prometheus.RecordOrderOperation("create")
	prometheus.ObserveOrderValue(order.FinalAmount.InexactFloat64())
	logger.FromContext(ctx).Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
		zap.String("final_amount", order.FinalAmount.StringFixed(pricing.Precision)))
	return order, nil
}

// snapshotItems resolves each requested line into an item row. Catalog
// products are read on tx so the snapshot matches the committed order.
func (s *OrderService) snapshotItems(ctx context.Context, tx *gorm.DB, lines []OrderItemInput) ([]model.OrderItem, error) {
	var ids []uint
	for _, line := range lines {
		if line.ProductID != nil {
			ids = append(ids, *line.ProductID)
		}
	}
	products := map[uint]model.Product{}
	if len(ids) > 0 {
		var err error
		if products, err = s.Products.GetByIDs(ctx, tx, ids); err != nil {
			return nil, err
		}
	}

	items := make([]model.OrderItem, 0, len(lines))
	for i, line := range lines {
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}
		item := model.OrderItem{
			Quantity: quantity,
			Discount: pricing.Round(line.Discount),
		}

		if line.ProductID != nil {
			product, ok := products[*line.ProductID]
			if !ok {
				return nil, apperror.Validation(fmt.Sprintf("Item %d: product %d not found", i+1, *line.ProductID))
			}
			if !product.InStock {
				return nil, apperror.Validation(fmt.Sprintf("Item %d: %s is out of stock", i+1, product.Name))
			}
			productID := product.ID
			item.ProductID = &productID
			item.ProductName = product.Name
			if product.SKU != nil {
				item.ProductSKU = *product.SKU
			}
			item.Price = product.FinalPrice
		} else {
			name := strings.TrimSpace(line.ProductName)
			if name == "" || line.Price == nil {
				return nil, apperror.Validation(fmt.Sprintf("Item %d: productName and price are required", i+1))
			}
			item.ProductName = name
			item.Price = pricing.Round(*line.Price)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) price(order *model.Order, items []model.OrderItem, discount decimal.Decimal) error {
	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = pricing.Line{UnitPrice: item.Price, Quantity: item.Quantity, Discount: item.Discount}
	}
	totals, err := pricing.OrderTotals(lines, s.TaxRate, discount)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].TotalPrice = totals.Lines[i]
	}
	order.Items = items
	order.TotalPrice = totals.Subtotal
	order.TaxAmount = totals.Tax
	order.DiscountAmount = totals.Discount
	order.FinalAmount = totals.Final
	return nil
}

func (s *OrderService) uniqueOrderNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := s.NewOrderNumber(s.Now())
		exists, err := s.Orders.OrderNumberExists(ctx, tx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		logger.FromContext(ctx).Debug("Order number collision", zap.String("order_number", number))
	}
	return "", fmt.Errorf("could not allocate a unique order number after %d attempts", orderNumberAttempts)
}

// UpdateStatus moves the order to status. Any known status is accepted;
// leaving a terminal status is allowed but logged.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) (_ *model.Order, err error) {
	ctx, span := startSpan(ctx, "order.update_status", idAttr(id), attribute.String("order.status", string(status)))
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid order status %q", status))
	}
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if previous.IsTerminal() && previous != status {
		logger.FromContext(ctx).Warn("Order leaving terminal status",
			zap.Uint("order_id", id),
			zap.String("from", string(previous)),
			zap.String("to", string(status)))
	}

	if err := s.Orders.UpdateColumn(ctx, id, "status", status); err != nil {
		return nil, err
	}

	prometheus.RecordOrderOperation("update_status")
	s.Audit.Record(ctx, ActionStatusChange, "order", id,
		fmt.Sprintf("Order %s status %s -> %s", order.OrderNumber, previous, status))
	return s.Orders.GetByID(ctx, id)
}

// UpdatePaymentStatus records a new settlement state for the order.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uint, status model.PaymentStatus) (_ *model.Order, err error) {
	ctx, span := startSpan(ctx, "order.update_payment", idAttr(id), attribute.String("order.payment_status", string(status)))
	defer func() { endSpan(span, err) }()

	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid payment status %q", status))
	}
	order, err := s.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Orders.UpdateColumn(ctx, id, "payment_status", status); err != nil {
		return nil, err
	}

	prometheus.RecordOrderOperation("update_payment")
	s.Audit.Record(ctx, ActionPaymentChange, "order", id,
		fmt.Sprintf("Order %s payment %s -> %s", order.OrderNumber, order.PaymentStatus, status))
	return s.Orders.GetByID(ctx, id)
}

// Delete removes the order and all of its items.
func (s *OrderService) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "order.delete", idAttr(id))
	defer func() { endSpan(span, err) }()

	err = s.Orders.Transaction(ctx, func(tx *gorm.DB) error {
		return s.Orders.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	prometheus.RecordOrderOperation("delete")
	s.Audit.Record(ctx, ActionDelete, "order", id, "Deleted order")
	return nil
}
