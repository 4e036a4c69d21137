// Package testdb opens migrated in-memory databases for tests.
package testdb

import (
	"testing"

	"github.com/White1313devil/medicals/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh, fully migrated in-memory sqlite database that is
// closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Every pooled connection would otherwise get its own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database object: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
