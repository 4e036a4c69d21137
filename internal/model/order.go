package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusPlaced     OrderStatus = "Order Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusReturned   OrderStatus = "Returned"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPlaced,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further fulfilment happens in this state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusReturned
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "Cash"
	PaymentCard       PaymentMethod = "Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "Net Banking"
	PaymentOther      PaymentMethod = "Other"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentNetBanking, PaymentOther:
		return true
	}
	return false
}

// Order is a placed order. Customer fields are snapshots, not a foreign key,
// so the order survives later customer edits or deletion.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"orderNumber" gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      *uint           `json:"customerId" gorm:"index"`
	CustomerName    string          `json:"customerName" gorm:"type:varchar(255);not null"`
	CustomerEmail   string          `json:"customerEmail" gorm:"type:varchar(255)"`
	CustomerPhone   string          `json:"customerPhone" gorm:"type:varchar(20)"`
	CustomerAddress string          `json:"customerAddress" gorm:"type:text"`
	TotalPrice      decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `json:"discountAmount" gorm:"type:decimal(10,2);not null;default:0"`
	TaxAmount       decimal.Decimal `json:"taxAmount" gorm:"type:decimal(10,2);not null;default:0"`
	FinalAmount     decimal.Decimal `json:"finalAmount" gorm:"type:decimal(10,2);not null;default:0"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'Order Placed';index"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" gorm:"type:varchar(20);not null;default:'Cash'"`
	DeliveryDate    *time.Time      `json:"deliveryDate" gorm:"type:date"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is an immutable snapshot of a product line at order time.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"orderId" gorm:"index;not null"`
	ProductID   *uint           `json:"productId" gorm:"index"`
	ProductName string          `json:"productName" gorm:"type:varchar(255);not null"`
	ProductSKU  string          `json:"productSku" gorm:"column:product_sku;type:varchar(100)"`
	Quantity    int             `json:"quantity" gorm:"not null;default:1"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null;default:0"`
	TotalPrice  decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null;default:0"`
}
