// Package router wires repositories, services and handlers onto an echo instance.
package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/White1313devil/medicals/internal/handler"
	mid "github.com/White1313devil/medicals/internal/middleware"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/White1313devil/medicals/pkg/config"
	"github.com/White1313devil/medicals/pkg/jwtutil"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/White1313devil/medicals/prometheus"
	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	servertiming "github.com/mitchellh/go-server-timing"
	"gorm.io/gorm"
)

// Services groups the application services built over one database.
type Services struct {
	Audit      *service.Auditor
	Auth       *service.AuthService
	Categories *service.CategoryService
	Products   *service.ProductService
	Customers  *service.CustomerService
	Suppliers  *service.SupplierService
	Orders     *service.OrderService
	Dashboard  *service.DashboardService
}

// NewServices builds every service over db.
func NewServices(cfg *config.Config, db *gorm.DB) *Services {
	categories := repository.NewCategoryRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	audit := service.NewAuditor(repository.NewActivityLogRepository(db))

	return &Services{
		Audit:      audit,
		Auth:       service.NewAuthService(repository.NewAdminRepository(db), jwtutil.NewJWTUtil(&cfg.JWT), audit),
		Categories: service.NewCategoryService(categories, audit),
		Products:   service.NewProductService(products, categories, audit),
		Customers:  service.NewCustomerService(repository.NewCustomerRepository(db), audit),
		Suppliers:  service.NewSupplierService(repository.NewSupplierRepository(db), audit),
		Orders:     service.NewOrderService(orders, products, audit, cfg.Order.TaxRate),
		Dashboard:  service.NewDashboardService(products, categories, orders),
	}
}

// New returns an echo instance with middleware and every route registered.
func New(cfg *config.Config, db *gorm.DB, svc *Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = mid.ErrorHandler(!cfg.Server.IsProduction())

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware())
	e.Use(echo.WrapMiddleware(func(next http.Handler) http.Handler {
		return servertiming.Middleware(next, nil)
	}))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(logger.Middleware())
	e.Use(middleware.CORS())
	e.Use(mid.ClientMiddleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	health := &handler.HealthHandler{DB: db, ServiceName: cfg.ServiceName}
	auth := &handler.AuthHandler{Auth: svc.Auth}
	products := &handler.ProductHandler{Products: svc.Products}
	categories := &handler.CategoryHandler{Categories: svc.Categories}
	customers := &handler.CustomerHandler{Customers: svc.Customers}
	suppliers := &handler.SupplierHandler{Suppliers: svc.Suppliers}
	orders := &handler.OrderHandler{Orders: svc.Orders}
	dashboard := &handler.DashboardHandler{Dashboard: svc.Dashboard, Audit: svc.Audit}

	api := e.Group("/api")
	requireAdmin := mid.AuthMiddleware(svc.Auth)

	api.GET("/health", health.HealthCheck)

	// Auth
	api.POST("/auth/login", auth.Login, loginLimiter(cfg.Server.LoginRateLimit)...)
	api.GET("/auth/profile", auth.Profile, requireAdmin)
	api.PUT("/auth/password", auth.ChangePassword, requireAdmin)
	api.POST("/auth/admins", auth.CreateAdmin, requireAdmin, mid.RequireRole(model.RoleSuperAdmin))

	// Products
	api.GET("/products", products.ListProducts)
	api.GET("/products/low-stock", products.ListLowStock, requireAdmin)
	api.GET("/products/:id", products.GetProduct)
	api.POST("/products", products.CreateProduct, requireAdmin)
	api.PUT("/products/:id", products.UpdateProduct, requireAdmin)
	api.DELETE("/products/:id", products.DeleteProduct, requireAdmin)

	// Categories
	api.GET("/categories", categories.ListCategories)
	api.GET("/categories/:id", categories.GetCategory)
	api.POST("/categories", categories.CreateCategory, requireAdmin)
	api.PUT("/categories/:id", categories.UpdateCategory, requireAdmin)
	api.DELETE("/categories/:id", categories.DeleteCategory, requireAdmin)

	// Customers
	customerAPI := api.Group("/customers", requireAdmin)
	customerAPI.GET("", customers.ListCustomers)
	customerAPI.POST("", customers.CreateCustomer)
	customerAPI.GET("/:id", customers.GetCustomer)
	customerAPI.PUT("/:id", customers.UpdateCustomer)
	customerAPI.DELETE("/:id", customers.DeleteCustomer)

	// Suppliers
	supplierAPI := api.Group("/suppliers", requireAdmin)
	supplierAPI.GET("", suppliers.ListSuppliers)
	supplierAPI.POST("", suppliers.CreateSupplier)
	supplierAPI.GET("/:id", suppliers.GetSupplier)
	supplierAPI.PUT("/:id", suppliers.UpdateSupplier)
	supplierAPI.DELETE("/:id", suppliers.DeleteSupplier)

	// Orders
	api.POST("/orders", orders.CreateOrder)
	api.GET("/orders", orders.ListOrders, requireAdmin)
	api.GET("/orders/:id", orders.GetOrder, requireAdmin)
	api.PUT("/orders/:id/status", orders.UpdateStatus, requireAdmin)
	api.PUT("/orders/:id/payment", orders.UpdatePaymentStatus, requireAdmin)
	api.DELETE("/orders/:id", orders.DeleteOrder, requireAdmin)

	// Back office
	api.GET("/dashboard/stats", dashboard.Stats, requireAdmin)
	api.GET("/activity-logs", dashboard.ActivityLogs, requireAdmin)

	return e
}

// loginLimiter throttles login attempts per client IP. A limit of zero or
// less returns no middleware.
func loginLimiter(perMinute int) []echo.MiddlewareFunc {
	if perMinute <= 0 {
		return nil
	}
	limiter := httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(echo.Map{
				"success": false,
				"message": "Too many login attempts, please try again later",
			})
		}),
	)
	return []echo.MiddlewareFunc{echo.WrapMiddleware(limiter)}
}
