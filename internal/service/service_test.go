package service

import (
	"context"
	"testing"

	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/internal/testdb"
	"github.com/White1313devil/medicals/pkg/config"
	"github.com/White1313devil/medicals/pkg/jwtutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	audit      *Auditor
	categories *CategoryService
	products   *ProductService
	customers  *CustomerService
	suppliers  *SupplierService
	orders     *OrderService
	auth       *AuthService
	dashboard  *DashboardService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testdb.New(t)

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	audit := NewAuditor(repository.NewActivityLogRepository(db))

	auth := NewAuthService(
		repository.NewAdminRepository(db),
		jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 720}),
		audit,
	)
	auth.BcryptCost = bcrypt.MinCost

	return &testServices{
		db:         db,
		audit:      audit,
		categories: NewCategoryService(categoryRepo, audit),
		products:   NewProductService(productRepo, categoryRepo, audit),
		customers:  NewCustomerService(repository.NewCustomerRepository(db), audit),
		suppliers:  NewSupplierService(repository.NewSupplierRepository(db), audit),
		orders:     NewOrderService(orderRepo, productRepo, audit, decimal.Zero),
		auth:       auth,
		dashboard:  NewDashboardService(productRepo, categoryRepo, orderRepo),
	}
}

// asAdmin returns a context carrying a super admin, as the auth middleware would.
func asAdmin() context.Context {
	ctx := authctx.WithCurrentAdmin(context.Background(), authctx.CurrentAdmin{ID: 1, Username: "admin", Role: model.RoleSuperAdmin})
	return authctx.WithClient(ctx, authctx.Client{IP: "127.0.0.1", UserAgent: "test"})
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (ts *testServices) category(t *testing.T, name string) *model.Category {
	t.Helper()
	category, err := ts.categories.Create(asAdmin(), CategoryInput{Name: ptr(name)})
	require.NoError(t, err)
	return category
}
