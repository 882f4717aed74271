package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vee4group/order-tracker-api/models"
)

// OpenTestDB opens a private in-memory SQLite database with every model migrated.
// A single connection keeps the in-memory database alive and shared across
// goroutines of the same test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateUser inserts a user with the given role and returns it.
func CreateUser(t *testing.T, db *gorm.DB, auth0ID, name, email, role string) models.User {
	t.Helper()

	user := models.User{
		Auth0ID: auth0ID,
		Name:    name,
		Email:   email,
		Role:    role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}
