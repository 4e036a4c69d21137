package handler

import (
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
)

func listFilter(c echo.Context) repository.ListFilter {
	return repository.ListFilter{
		Keyword: c.QueryParam("keyword"),
		Page:    queryInt(c, "pageNumber", 1),
	}
}

type CustomerHandler struct {
	Customers *service.CustomerService
}

func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	page, err := h.Customers.List(c.Request().Context(), listFilter(c))
	if err != nil {
		return err
	}
	return ok(c, echo.Map{
		"customers": page.Items,
		"page":      page.Page,
		"pages":     page.TotalPages,
		"total":     page.TotalCount,
	})
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	customer, err := h.Customers.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"customer": customer})
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req service.CustomerInput
	if err := bind(c, &req); err != nil {
		return err
	}
	customer, err := h.Customers.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Customer created successfully", "customer": customer})
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.CustomerInput
	if err := bind(c, &req); err != nil {
		return err
	}
	customer, err := h.Customers.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Customer updated successfully", "customer": customer})
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Customer removed"})
}

type SupplierHandler struct {
	Suppliers *service.SupplierService
}

func (h *SupplierHandler) ListSuppliers(c echo.Context) error {
	page, err := h.Suppliers.List(c.Request().Context(), listFilter(c))
	if err != nil {
		return err
	}
	return ok(c, echo.Map{
		"suppliers": page.Items,
		"page":      page.Page,
		"pages":     page.TotalPages,
		"total":     page.TotalCount,
	})
}

func (h *SupplierHandler) GetSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	supplier, err := h.Suppliers.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"supplier": supplier})
}

func (h *SupplierHandler) CreateSupplier(c echo.Context) error {
	var req service.SupplierInput
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.Suppliers.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Supplier created successfully", "supplier": supplier})
}

func (h *SupplierHandler) UpdateSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.SupplierInput
	if err := bind(c, &req); err != nil {
		return err
	}
	supplier, err := h.Suppliers.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Supplier updated successfully", "supplier": supplier})
}

func (h *SupplierHandler) DeleteSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Suppliers.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Supplier removed"})
}
