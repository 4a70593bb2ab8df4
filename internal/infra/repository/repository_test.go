package repository

import (
	"testing"

	"app/internal/domain/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Vendor{},
		&model.Department{},
		&model.Product{},
		&model.VariationType{},
		&model.VariationTypeOption{},
		&model.Variation{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func int64p(v int64) *int64 { return &v }
