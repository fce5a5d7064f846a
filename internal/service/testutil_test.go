package service

import (
	"testing"

	"lesson-server/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB replaces the global DB with an in-memory sqlite database,
// so service-level tests run without an external MySQL instance.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// :memory: databases live per connection, keep a single one
	sqlDB.SetMaxOpenConns(1)

	model.DB = db
	if err := model.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// mustCreate inserts a row and fails the test on error
func mustCreate(t *testing.T, value interface{}) {
	t.Helper()
	if err := model.DB.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
