package service

import (
	"errors"
	"testing"
)

func TestCreateStore(t *testing.T) {
	db := testDB(t)
	s := NewStoreService(db, nil)

	tenantA, _ := seedTenant(t, db, "shops-a")
	tenantB, _ := seedTenant(t, db, "shops-b")

	store, err := s.CreateStore(CreateStoreInput{
		TenantID: tenantA.ID,
		Name:     "Downtown Branch",
		Address:  "12 Main Rd",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !store.IsActive {
		t.Errorf("new store must be active")
	}

	// Duplicate name within the tenant is rejected
	if _, err := s.CreateStore(CreateStoreInput{
		TenantID: tenantA.ID,
		Name:     "Downtown Branch",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate name err = %v, want ErrConflict", err)
	}

	// The same name in another tenant is fine
	if _, err := s.CreateStore(CreateStoreInput{
		TenantID: tenantB.ID,
		Name:     "Downtown Branch",
	}); err != nil {
		t.Fatalf("cross-tenant name rejected: %v", err)
	}
}

func TestListStoresScopedToTenant(t *testing.T) {
	db := testDB(t)
	s := NewStoreService(db, nil)

	tenantA, _ := seedTenant(t, db, "scope-a")
	tenantB, _ := seedTenant(t, db, "scope-b")

	stores, err := s.ListStores(tenantA.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, st := range stores {
		if st.TenantID != tenantA.ID {
			t.Fatalf("store %d belongs to tenant %d", st.ID, st.TenantID)
		}
	}

	other, err := s.ListStores(tenantB.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("tenant B stores = %d, want only its seeded store", len(other))
	}
}

func TestUpdateStore(t *testing.T) {
	db := testDB(t)
	s := NewStoreService(db, nil)

	tenant, store := seedTenant(t, db, "edit")
	otherTenant, _ := seedTenant(t, db, "edit-other")

	updated, err := s.UpdateStore(tenant.ID, store.ID, map[string]interface{}{
		"address": "99 New St",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Address != "99 New St" {
		t.Fatalf("address = %q", updated.Address)
	}

	if _, err := s.UpdateStore(otherTenant.ID, store.ID, map[string]interface{}{
		"address": "hijack",
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant update err = %v, want ErrNotFound", err)
	}
}
