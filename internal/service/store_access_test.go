package service

import (
	"errors"
	"testing"

	"pos-service/internal/model"

	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, tenantID uint, email string, role model.UserRole) *model.User {
	t.Helper()
	user := model.User{
		Email:    email,
		Password: "x",
		Role:     role,
		TenantID: tenantID,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func TestSwitchStoreWithGrant(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenant, store := seedTenant(t, db, "switch")
	user := seedUser(t, db, tenant.ID, "cashier@switch.example", model.RoleCashier)
	if err := db.Create(&model.UserStore{UserID: user.ID, StoreID: store.ID}).Error; err != nil {
		t.Fatalf("seed grant: %v", err)
	}

	switched, err := s.SwitchStore(user.ID, store.ID)
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if switched.CurrentStoreID == nil || *switched.CurrentStoreID != store.ID {
		t.Fatalf("current store not updated")
	}

	var persisted model.User
	if err := db.First(&persisted, user.ID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if persisted.CurrentStoreID == nil || *persisted.CurrentStoreID != store.ID {
		t.Fatalf("current store not persisted")
	}
}

func TestSwitchStoreAutoProvision(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenant, store := seedTenant(t, db, "provision")

	// Managers self-provision access to stores of their own tenant
	manager := seedUser(t, db, tenant.ID, "manager@provision.example", model.RoleManager)
	if _, err := s.SwitchStore(manager.ID, store.ID); err != nil {
		t.Fatalf("manager switch failed: %v", err)
	}
	var grant model.UserStore
	if err := db.Where("user_id = ? AND store_id = ?", manager.ID, store.ID).First(&grant).Error; err != nil {
		t.Fatalf("auto-provisioned grant missing: %v", err)
	}
	if grant.IsDefault {
		t.Errorf("auto-provisioned grant must not be default")
	}

	// Cashiers do not
	cashier := seedUser(t, db, tenant.ID, "cashier@provision.example", model.RoleCashier)
	if _, err := s.SwitchStore(cashier.ID, store.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("cashier err = %v, want ErrUnauthorized", err)
	}
}

func TestSwitchStoreCrossTenantDenied(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenantA, _ := seedTenant(t, db, "tenant-a")
	_, storeB := seedTenant(t, db, "tenant-b")

	// Even an admin cannot reach another tenant's store, and the denial is
	// indistinguishable from a missing store
	admin := seedUser(t, db, tenantA.ID, "admin@a.example", model.RoleAdmin)
	if _, err := s.SwitchStore(admin.ID, storeB.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("cross-tenant err = %v, want ErrUnauthorized", err)
	}
	if _, err := s.SwitchStore(admin.ID, 9999); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("missing store err = %v, want ErrUnauthorized", err)
	}
}

func TestAssignStoreKeepsSingleDefault(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenant, first := seedTenant(t, db, "defaults")
	second := model.Store{Name: "Second", TenantID: tenant.ID, IsActive: true}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	user := seedUser(t, db, tenant.ID, "staff@defaults.example", model.RoleCashier)

	if _, err := s.AssignStoreToUser(user.ID, first.ID, true); err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if _, err := s.AssignStoreToUser(user.ID, second.ID, true); err != nil {
		t.Fatalf("second assign failed: %v", err)
	}

	var defaults int64
	if err := db.Model(&model.UserStore{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).
		Count(&defaults).Error; err != nil {
		t.Fatalf("count defaults: %v", err)
	}
	if defaults != 1 {
		t.Fatalf("defaults = %d, want exactly 1", defaults)
	}

	var current model.UserStore
	if err := db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&current).Error; err != nil {
		t.Fatalf("load default: %v", err)
	}
	if current.StoreID != second.ID {
		t.Fatalf("default store = %d, want %d", current.StoreID, second.ID)
	}
}

func TestAssignStoreUpdatesExistingGrant(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenant, store := seedTenant(t, db, "regrant")
	user := seedUser(t, db, tenant.ID, "staff@regrant.example", model.RoleCashier)

	if _, err := s.AssignStoreToUser(user.ID, store.ID, false); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, err := s.AssignStoreToUser(user.ID, store.ID, true); err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}

	var grants int64
	if err := db.Model(&model.UserStore{}).Where("user_id = ?", user.ID).Count(&grants).Error; err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if grants != 1 {
		t.Fatalf("grants = %d, want 1 row per (user, store)", grants)
	}
}

func TestGetUserStores(t *testing.T) {
	db := testDB(t)
	s := NewStoreAccessService(db, nil)

	tenant, store := seedTenant(t, db, "list")
	user := seedUser(t, db, tenant.ID, "staff@list.example", model.RoleCashier)
	if _, err := s.AssignStoreToUser(user.ID, store.ID, true); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	stores, err := s.GetUserStores(user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stores) != 1 || stores[0].ID != store.ID {
		t.Fatalf("stores = %+v, want the granted store", stores)
	}
}
