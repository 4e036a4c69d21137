package handler

import (
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Products *service.ProductService
}

// productRequest defines the structure for product creation/update requests
type productRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"`
	Rate          *decimal.Decimal `json:"rate"`
	Discount      *decimal.Decimal `json:"discount"`
	CategoryID    *uint            `json:"categoryId"`
	InStock       *bool            `json:"inStock"`
	StockQuantity *int             `json:"stockQuantity"`
	MinStockLevel *int             `json:"minStockLevel"`
	Manufacturer  *string          `json:"manufacturer"`
	ExpiryDate    *Date            `json:"expiryDate"`
	BatchNumber   *string          `json:"batchNumber"`
	ImageURL      *string          `json:"imageUrl"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		SKU:           r.SKU,
		Rate:          r.Rate,
		Discount:      r.Discount,
		CategoryID:    r.CategoryID,
		InStock:       r.InStock,
		StockQuantity: r.StockQuantity,
		MinStockLevel: r.MinStockLevel,
		Manufacturer:  r.Manufacturer,
		ExpiryDate:    r.ExpiryDate.Ptr(),
		BatchNumber:   r.BatchNumber,
		ImageURL:      r.ImageURL,
	}
}

// ListProducts handles GET /products?pageNumber=&keyword=&category=
func (h *ProductHandler) ListProducts(c echo.Context) error {
	page, err := h.Products.List(c.Request().Context(), repository.ListFilter{
		Keyword:      c.QueryParam("keyword"),
		CategoryName: c.QueryParam("category"),
		Page:         queryInt(c, "pageNumber", 1),
	})
	if err != nil {
		return err
	}
	return ok(c, echo.Map{
		"products": page.Items,
		"page":     page.Page,
		"pages":    page.TotalPages,
		"total":    page.TotalCount,
	})
}

func (h *ProductHandler) ListLowStock(c echo.Context) error {
	products, err := h.Products.ListLowStock(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"count": len(products), "products": products})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.Products.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"product": product})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.Products.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Product created successfully", "product": product})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.Products.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Product updated successfully", "product": product})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Products.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Product deleted successfully"})
}
