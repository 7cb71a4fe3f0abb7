package service

import (
	"fmt"
	"testing"

	"pos-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testDB opens an isolated in-memory database with the full schema migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Store{},
		&model.UserStore{},
		&model.Notification{},
		&model.Category{},
		&model.Product{},
		&model.InventoryBatch{},
		&model.Customer{},
		&model.Sale{},
		&model.SaleItem{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// seedTenant creates a tenant with one store and returns both.
func seedTenant(t *testing.T, db *gorm.DB, name string) (*model.Tenant, *model.Store) {
	t.Helper()

	tenant := model.Tenant{Name: name, Email: name + "@example.com", IsActive: true}
	if err := db.Create(&tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	store := model.Store{Name: name + " Main", TenantID: tenant.ID, IsActive: true}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}

	return &tenant, &store
}
