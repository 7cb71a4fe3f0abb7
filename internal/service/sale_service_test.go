package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pos-service/internal/model"

	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, tenantID uint, name string, price float64, stock int) *model.Product {
	t.Helper()
	product := model.Product{
		Name:     name,
		Price:    price,
		TenantID: tenantID,
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &product
}

func TestCreateSale(t *testing.T) {
	db := testDB(t)
	push := &fakePush{initialized: true}
	notifications := NewNotificationService(db, push, nil)
	s := NewSaleService(db, notifications, nil)

	tenant, store := seedTenant(t, db, "sale")
	staff := seedUser(t, db, tenant.ID, "staff@sale.example", model.RoleCashier)
	paracetamol := seedProduct(t, db, tenant.ID, "Paracetamol 500mg", 25.50, 100)
	syrup := seedProduct(t, db, tenant.ID, "Cough Syrup", 89.99, 10)

	sale, err := s.CreateSale(context.Background(), CreateSaleInput{
		TenantID:      tenant.ID,
		StoreID:       store.ID,
		StaffID:       staff.ID,
		PaymentMethod: "cash",
		Discount:      10,
		Tax:           5,
		Items: []SaleItemInput{
			{ProductID: paracetamol.ID, Quantity: 2},
			{ProductID: syrup.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	wantSubtotal := 25.50*2 + 89.99
	if sale.Subtotal != wantSubtotal {
		t.Errorf("subtotal = %v, want %v", sale.Subtotal, wantSubtotal)
	}
	if sale.Total != wantSubtotal-10+5 {
		t.Errorf("total = %v", sale.Total)
	}
	if !strings.HasPrefix(sale.InvoiceNumber, "INV-") {
		t.Errorf("invoice = %q", sale.InvoiceNumber)
	}
	if len(sale.Items) != 2 {
		t.Errorf("items = %d", len(sale.Items))
	}

	// Stock decremented
	var p model.Product
	if err := db.First(&p, paracetamol.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 98 {
		t.Errorf("stock = %d, want 98", p.Stock)
	}

	// Completion raised the store topic notification
	if len(push.topics) != 1 || !strings.Contains(push.topics[0], "sales") {
		t.Errorf("topics = %v", push.topics)
	}
	var count int64
	if err := db.Model(&model.Notification{}).Where("user_id = ?", staff.ID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Errorf("notifications = %d, want 1", count)
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	db := testDB(t)
	s := NewSaleService(db, nil, nil)

	tenant, store := seedTenant(t, db, "stock")
	staff := seedUser(t, db, tenant.ID, "staff@stock.example", model.RoleCashier)
	product := seedProduct(t, db, tenant.ID, "Bandages", 15, 3)

	_, err := s.CreateSale(context.Background(), CreateSaleInput{
		TenantID: tenant.ID,
		StoreID:  store.ID,
		StaffID:  staff.ID,
		Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The rejected sale must not touch stock
	var p model.Product
	if err := db.First(&p, product.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 3 {
		t.Fatalf("stock = %d, want untouched 3", p.Stock)
	}
}

func TestCreateSaleRollsBackOnPartialFailure(t *testing.T) {
	db := testDB(t)
	s := NewSaleService(db, nil, nil)

	tenant, store := seedTenant(t, db, "rollback")
	staff := seedUser(t, db, tenant.ID, "staff@rollback.example", model.RoleCashier)
	good := seedProduct(t, db, tenant.ID, "Vitamins", 50, 20)

	_, err := s.CreateSale(context.Background(), CreateSaleInput{
		TenantID: tenant.ID,
		StoreID:  store.ID,
		StaffID:  staff.ID,
		Items: []SaleItemInput{
			{ProductID: good.ID, Quantity: 2},
			{ProductID: 9999, Quantity: 1},
		},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// The first line's decrement rolled back with the transaction
	var p model.Product
	if err := db.First(&p, good.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 20 {
		t.Fatalf("stock = %d, want 20 after rollback", p.Stock)
	}
	var sales int64
	if err := db.Model(&model.Sale{}).Count(&sales).Error; err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if sales != 0 {
		t.Fatalf("sales = %d, want 0", sales)
	}
}

func TestCreateSaleCrossTenantProduct(t *testing.T) {
	db := testDB(t)
	s := NewSaleService(db, nil, nil)

	tenantA, storeA := seedTenant(t, db, "tenant-x")
	tenantB, _ := seedTenant(t, db, "tenant-y")
	staff := seedUser(t, db, tenantA.ID, "staff@x.example", model.RoleCashier)
	foreign := seedProduct(t, db, tenantB.ID, "Foreign Product", 10, 50)

	_, err := s.CreateSale(context.Background(), CreateSaleInput{
		TenantID: tenantA.ID,
		StoreID:  storeA.ID,
		StaffID:  staff.ID,
		Items:    []SaleItemInput{{ProductID: foreign.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for another tenant's product", err)
	}
}

func TestListSales(t *testing.T) {
	db := testDB(t)
	s := NewSaleService(db, nil, nil)

	tenant, store := seedTenant(t, db, "listsales")
	other := model.Store{Name: "Other", TenantID: tenant.ID, IsActive: true}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	staff := seedUser(t, db, tenant.ID, "staff@listsales.example", model.RoleCashier)
	product := seedProduct(t, db, tenant.ID, "Aspirin", 12, 100)

	for i := 0; i < 3; i++ {
		storeID := store.ID
		if i == 2 {
			storeID = other.ID
		}
		if _, err := s.CreateSale(context.Background(), CreateSaleInput{
			TenantID: tenant.ID,
			StoreID:  storeID,
			StaffID:  staff.ID,
			Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
		}); err != nil {
			t.Fatalf("create sale %d: %v", i, err)
		}
	}

	all, total, err := s.ListSales(tenant.ID, nil, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("total=%d len=%d, want 3/3", total, len(all))
	}

	scoped, total, err := s.ListSales(tenant.ID, &store.ID, 1, 10)
	if err != nil {
		t.Fatalf("scoped list failed: %v", err)
	}
	if total != 2 || len(scoped) != 2 {
		t.Fatalf("scoped total=%d len=%d, want 2/2", total, len(scoped))
	}
}

func TestGetSale(t *testing.T) {
	db := testDB(t)
	s := NewSaleService(db, nil, nil)

	tenant, store := seedTenant(t, db, "getsale")
	otherTenant, _ := seedTenant(t, db, "getsale-other")
	staff := seedUser(t, db, tenant.ID, "staff@getsale.example", model.RoleCashier)
	product := seedProduct(t, db, tenant.ID, "Ibuprofen", 30, 10)

	created, err := s.CreateSale(context.Background(), CreateSaleInput{
		TenantID: tenant.ID,
		StoreID:  store.ID,
		StaffID:  staff.ID,
		Items:    []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	sale, err := s.GetSale(tenant.ID, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if sale.InvoiceNumber != created.InvoiceNumber {
		t.Fatalf("wrong sale returned")
	}

	if _, err := s.GetSale(otherTenant.ID, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-tenant get err = %v, want ErrNotFound", err)
	}
}
