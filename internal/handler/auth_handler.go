package handler

import (
	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Auth *service.AuthService
}

type loginRequest struct {
	// Username holds either the username or the email address.
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.Auth.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return err
	}

	return ok(c, echo.Map{
		"id":       result.Admin.ID,
		"username": result.Admin.Username,
		"email":    result.Admin.Email,
		"role":     result.Admin.Role,
		"token":    result.Token,
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	current := authctx.FromContext(c.Request().Context())
	if current == nil {
		return apperror.Auth("Not authorized")
	}
	admin, err := h.Auth.Profile(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"admin": admin})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	current := authctx.FromContext(c.Request().Context())
	if current == nil {
		return apperror.Auth("Not authorized")
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Auth.ChangePassword(c.Request().Context(), current.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return ok(c, echo.Map{"message": "Password updated successfully"})
}

func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req struct {
		Username string          `json:"username"`
		Email    string          `json:"email"`
		Password string          `json:"password"`
		Role     model.AdminRole `json:"role"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	admin, err := h.Auth.CreateAdmin(c.Request().Context(), service.CreateAdminInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return created(c, echo.Map{"message": "Admin created successfully", "admin": admin})
}
