package main

import (
	"context"
	"flag"
	"os"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/router"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/White1313devil/medicals/pkg/config"
	"github.com/White1313devil/medicals/pkg/database"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultAdminEmail    = "admin@sm.com"
	defaultAdminPassword = "sm1314"
)

type seedProduct struct {
	name     string
	rate     int64
	discount int64
}

// catalog maps each seeded category to its sample products.
var catalog = []struct {
	category string
	products []seedProduct
}{
	{"General Pharmacy", []seedProduct{{"Paracetamol 500mg", 20, 2}}},
	{"Skin Care", []seedProduct{{"Vitamin C Serum", 450, 50}}},
	{"Baby Products", []seedProduct{{"Baby Soap", 55, 5}}},
	{"Health Drinks", []seedProduct{{"Horlicks 500g", 260, 20}}},
}

func main() {
	force := flag.Bool("force", false, "Drop and recreate every table before seeding")
	destroy := flag.Bool("destroy", false, "Drop every table and exit")
	flag.Parse()

	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)

	if *force || *destroy {
		if err := db.Migrator().DropTable(model.All()...); err != nil {
			log.Fatal("Failed to drop tables", zap.Error(err))
		}
		log.Info("Data destroyed")
		if *destroy {
			return
		}
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := logger.WithContext(context.Background(), log)
	if err := seed(ctx, router.NewServices(appConfig, db)); err != nil {
		log.Fatal("Error seeding data", zap.Error(err))
	}
	log.Info("Data seeded successfully")
}

func seed(ctx context.Context, svc *router.Services) error {
	log := logger.FromContext(ctx)

	admin, err := seedAdmin(ctx, svc.Auth)
	if err != nil {
		return err
	}
	// Everything below is attributed to the seeded admin in the activity log.
	ctx = authctx.WithCurrentAdmin(ctx, service.CurrentAdmin(admin))

	var paracetamol *model.Product
	for _, entry := range catalog {
		name := entry.category
		category, err := svc.Categories.Create(ctx, service.CategoryInput{Name: &name})
		if apperror.Is(err, apperror.KindDuplicate) {
			log.Info("Category already present, skipping", zap.String("category", name))
			continue
		}
		if err != nil {
			return err
		}

		for _, p := range entry.products {
			productName := p.name
			rate := decimal.NewFromInt(p.rate)
			discount := decimal.NewFromInt(p.discount)
			inStock := true
			product, err := svc.Products.Create(ctx, service.ProductInput{
				Name:       &productName,
				Rate:       &rate,
				Discount:   &discount,
				CategoryID: &category.ID,
				InStock:    &inStock,
			})
			if err != nil {
				return err
			}
			if paracetamol == nil {
				paracetamol = product
			}
		}
	}
	log.Info("Catalog imported")

	if paracetamol == nil {
		return nil
	}
	order, err := svc.Orders.Create(ctx, service.CreateOrderInput{
		CustomerName: "Demo Customer",
		Items: []service.OrderItemInput{
			{ProductID: &paracetamol.ID, Quantity: 1},
		},
	})
	if err != nil {
		return err
	}
	log.Info("Example order imported", zap.String("order_number", order.OrderNumber))
	return nil
}

// seedAdmin creates the default super admin unless the username is taken.
func seedAdmin(ctx context.Context, auth *service.AuthService) (*model.Admin, error) {
	existing, err := auth.Admins.FindByIdentifier(ctx, defaultAdminEmail)
	if err == nil {
		logger.FromContext(ctx).Info("Default admin already present")
		return existing, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}
	email := defaultAdminEmail
	admin := &model.Admin{
		Username: defaultAdminEmail,
		Email:    &email,
		Role:     model.RoleSuperAdmin,
		IsActive: true,
	}
	admin.SetPassword(password)
	if err := auth.SaveAdmin(ctx, admin); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Default admin imported", zap.String("username", admin.Username))
	return admin, nil
}
