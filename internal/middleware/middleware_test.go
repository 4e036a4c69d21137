package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	admins map[string]*model.Admin
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*model.Admin, error) {
	if admin, ok := s.admins[token]; ok {
		return admin, nil
	}
	return nil, apperror.Auth("Not authorized, token failed")
}

func newEcho(debug bool) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(debug)
	return e
}

func serve(e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		debug     bool
		status    int
		message   string
		wantStack bool
	}{
		{"validation", apperror.Validation("Category name is required"), false, http.StatusBadRequest, "Category name is required", false},
		{"not found", apperror.NotFound("Order not found"), false, http.StatusNotFound, "Order not found", false},
		{"duplicate", apperror.Duplicate("Category already exists"), false, http.StatusBadRequest, "Category already exists", false},
		{"forbidden", apperror.Forbidden("nope"), false, http.StatusForbidden, "nope", false},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), false, http.StatusMethodNotAllowed, "Method Not Allowed", false},
		{"unexpected in production", errors.New("disk on fire"), false, http.StatusInternalServerError, "", false},
		{"unexpected in development", errors.New("disk on fire"), true, http.StatusInternalServerError, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(tt.debug)
			e.GET("/boom", func(echo.Context) error { return tt.err })

			rec, body := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, body["success"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			}
			assert.NotContains(t, body["message"], "disk on fire")
			_, hasStack := body["stack"]
			assert.Equal(t, tt.wantStack, hasStack)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := newEcho(false)
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get(echo.HeaderXRequestID))
	})

	rec, _ := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(echo.HeaderXRequestID)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "caller-id")
	rec, _ = serve(e, req)
	assert.Equal(t, "caller-id", rec.Header().Get(echo.HeaderXRequestID))
}

func TestAuthMiddleware(t *testing.T) {
	auth := stubAuthenticator{admins: map[string]*model.Admin{
		"good":    {ID: 7, Username: "boss", Role: model.RoleSuperAdmin, IsActive: true},
		"manager": {ID: 8, Username: "mgr", Role: model.RoleManager, IsActive: true},
	}}

	e := newEcho(false)
	e.Use(ClientMiddleware())
	handler := func(c echo.Context) error {
		admin := authctx.FromContext(c.Request().Context())
		client := authctx.ClientFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, echo.Map{"id": admin.ID, "username": admin.Username, "agent": client.UserAgent})
	}
	e.GET("/me", handler, AuthMiddleware(auth))
	e.GET("/root", handler, AuthMiddleware(auth), RequireRole(model.RoleSuperAdmin))

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "/me", "Bearer good", http.StatusOK},
		{"lowercase scheme", "/me", "bearer good", http.StatusOK},
		{"role allowed", "/root", "Bearer good", http.StatusOK},
		{"role rejected", "/root", "Bearer manager", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("User-Agent", "middleware-test")
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec, body := serve(e, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "boss", body["username"])
				assert.Equal(t, "middleware-test", body["agent"])
			} else {
				assert.Equal(t, false, body["success"])
			}
		})
	}
}
