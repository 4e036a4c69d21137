package handler

import (
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	Categories *service.CategoryService
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"count": len(categories), "categories": categories})
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	category, err := h.Categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"category": category})
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Categories.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Category created successfully", "category": category})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Categories.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Category updated successfully", "category": category})
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Category deleted successfully"})
}
