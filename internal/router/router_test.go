package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/testdb"
	"github.com/White1313devil/medicals/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	e   *echo.Echo
	svc *Services
}

func newTestApp(t *testing.T, opts ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := &config.Config{
		ServiceName: "medicals-test",
		Server:      config.ServerConfig{Port: "0", Env: "test"},
		JWT:         config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 720},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	db := testdb.New(t)
	svc := NewServices(cfg, db)
	svc.Auth.BcryptCost = bcrypt.MinCost
	return &testApp{e: New(cfg, db, svc), svc: svc}
}

func (a *testApp) seedAdmin(t *testing.T, username, password string, role model.AdminRole) {
	t.Helper()
	email := username + "@sm.com"
	admin := &model.Admin{Username: username, Email: &email, Role: role, IsActive: true}
	admin.SetPassword(password)
	require.NoError(t, a.svc.Auth.SaveAdmin(t.Context(), admin))
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	rec, body := a.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func amount(t *testing.T, v interface{}) string {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected a decimal string, got %T", v)
	return decimal.RequireFromString(s).StringFixed(2)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "admin", "admin123", model.RoleSuperAdmin)

	rec, body := app.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": "admin@sm.com", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, "super_admin", body["role"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	wrongRec, wrongBody := app.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": "admin", "password": "bad"}, "")
	unknownRec, unknownBody := app.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": "ghost", "password": "admin123"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongRec.Code)
	assert.Equal(t, wrongRec.Code, unknownRec.Code)
	assert.Equal(t, wrongBody, unknownBody)
	assert.Equal(t, false, wrongBody["success"])
	assert.Equal(t, "Invalid username/email or password", wrongBody["message"])
}

func TestLoginRateLimit(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) { cfg.Server.LoginRateLimit = 2 })
	app.seedAdmin(t, "admin", "admin123", model.RoleSuperAdmin)

	for i := 0; i < 2; i++ {
		rec, _ := app.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": "admin", "password": "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, body := app.do(t, http.MethodPost, "/api/auth/login", echo.Map{"username": "admin", "password": "admin123"}, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = app.do(t, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(t, http.MethodGet, "/api/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = app.do(t, http.MethodGet, "/api/dashboard/stats", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "admin", "admin123", model.RoleSuperAdmin)
	token := app.login(t, "admin", "admin123")

	rec, body := app.do(t, http.MethodPost, "/api/categories", echo.Map{"name": "Medicines"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := body["category"].(map[string]interface{})
	categoryID := category["id"]

	rec, body = app.do(t, http.MethodPost, "/api/products", echo.Map{
		"name":       "Paracetamol",
		"rate":       450,
		"discount":   "50",
		"categoryId": categoryID,
		"expiryDate": "2026-12-31",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := body["product"].(map[string]interface{})
	assert.Equal(t, "400.00", amount(t, product["finalPrice"]))
	assert.Equal(t, "Medicines", product["categoryName"])

	rec, body = app.do(t, http.MethodGet, "/api/products?keyword=PARA&category=med", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(1), body["pages"])
	assert.Len(t, body["products"], 1)

	rec, body = app.do(t, http.MethodGet, "/api/products?pageNumber=92233720368547760", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["products"])
	assert.Equal(t, float64(1), body["pages"])

	rec, body = app.do(t, http.MethodPost, "/api/products", echo.Map{"name": "NoRate", "categoryId": categoryID}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation Error: name, rate, and categoryId are required", body["message"])

	rec, _ = app.do(t, http.MethodPost, "/api/products", echo.Map{"name": "Bad", "rate": "abc", "categoryId": categoryID}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = app.do(t, http.MethodDelete, "/api/products/1", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])

	rec, body = app.do(t, http.MethodGet, "/api/products/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["message"])

	rec, _ = app.do(t, http.MethodGet, "/api/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicOrderAndAdminManagement(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "admin", "admin123", model.RoleSuperAdmin)
	token := app.login(t, "admin", "admin123")

	rec, body := app.do(t, http.MethodPost, "/api/orders", echo.Map{
		"customerName": "Asha",
		"products": []echo.Map{
			{"productName": "Paracetamol", "quantity": 2, "price": 18},
		},
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "36.00", amount(t, order["totalPrice"]))
	assert.Equal(t, "Order Placed", order["status"])
	orderID := uint(order["id"].(float64))

	rec, body = app.do(t, http.MethodPut, "/api/orders/"+jsonID(orderID)+"/status", echo.Map{"status": "Shipped"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Shipped", body["order"].(map[string]interface{})["status"])

	rec, _ = app.do(t, http.MethodPut, "/api/orders/"+jsonID(orderID)+"/status", echo.Map{"status": "Teleported"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = app.do(t, http.MethodGet, "/api/dashboard/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["totalOrders"])
	assert.Equal(t, "36.00", amount(t, body["totalSales"]))

	rec, _ = app.do(t, http.MethodDelete, "/api/orders/"+jsonID(orderID), nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodDelete, "/api/orders/"+jsonID(orderID), nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/orders/"+jsonID(orderID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = app.do(t, http.MethodGet, "/api/activity-logs?limit=10", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["logs"])
}

func TestCreateAdminRequiresSuperAdmin(t *testing.T) {
	app := newTestApp(t)
	app.seedAdmin(t, "boss", "admin123", model.RoleSuperAdmin)
	app.seedAdmin(t, "manager", "admin123", model.RoleManager)

	request := echo.Map{"username": "clerk", "password": "secret1", "role": "admin"}

	rec, body := app.do(t, http.MethodPost, "/api/auth/admins", request, app.login(t, "manager", "admin123"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, body = app.do(t, http.MethodPost, "/api/auth/admins", request, app.login(t, "boss", "admin123"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "clerk", body["admin"].(map[string]interface{})["username"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	rec, body := app.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, _ = app.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "medicals_http_requests_total")

	rec, body = app.do(t, http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
