package handler

import (
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	Orders *service.OrderService
}

type orderItemRequest struct {
	ProductID   *uint            `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Discount    decimal.Decimal  `json:"discount"`
}

type orderRequest struct {
	CustomerID      *uint               `json:"customerId"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	CustomerAddress string              `json:"customerAddress"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
	DeliveryDate    *Date               `json:"deliveryDate"`
	Notes           string              `json:"notes"`
	DiscountAmount  decimal.Decimal     `json:"discountAmount"`
	Items           []orderItemRequest  `json:"items"`
	// Products is the storefront cart's name for Items.
	Products []orderItemRequest `json:"products"`
}

func (r orderRequest) input() service.CreateOrderInput {
	lines := r.Items
	if len(lines) == 0 {
		lines = r.Products
	}
	items := make([]service.OrderItemInput, len(lines))
	for i, line := range lines {
		items[i] = service.OrderItemInput{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Discount:    line.Discount,
		}
	}
	return service.CreateOrderInput{
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		PaymentMethod:   r.PaymentMethod,
		DeliveryDate:    r.DeliveryDate.Ptr(),
		Notes:           r.Notes,
		DiscountAmount:  r.DiscountAmount,
		Items:           items,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req orderRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.Orders.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Order placed successfully", "order": order})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"count": len(orders), "orders": orders})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	order, err := h.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"order": order})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.Orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Order status updated", "order": order})
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req struct {
		PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.Orders.UpdatePaymentStatus(c.Request().Context(), id, req.PaymentStatus)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Payment status updated", "order": order})
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Orders.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Order deleted successfully"})
}
