package db

import (
	"fmt"
	"testing"

	"github.com/supermart/supermart-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The pool is pinned to a single connection: SQLite allows one writer at a
// time, so concurrent test operations serialize at the store the same way
// postgres row locks would.
func SetupTestDB(t *testing.T) (*gorm.DB, error) {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = testDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductImage{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testDB, nil
}
