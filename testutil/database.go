package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database and migrates models.
// Each call gets its own isolated database.
func NewTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// DBHelper bundles raw table operations for assertions.
type DBHelper struct {
	DB *gorm.DB
}

func NewDBHelper(db *gorm.DB) *DBHelper {
	return &DBHelper{DB: db}
}

// DeleteAll removes every row in the table.
func (h *DBHelper) DeleteAll(tableName string) error {
	return h.DB.Exec("DELETE FROM " + tableName).Error
}

func (h *DBHelper) Count(tableName string) (int64, error) {
	var count int64
	err := h.DB.Table(tableName).Count(&count).Error
	return count, err
}

func (h *DBHelper) CountWhere(tableName string, where string, args ...any) (int64, error) {
	var count int64
	err := h.DB.Table(tableName).Where(where, args...).Count(&count).Error
	return count, err
}
