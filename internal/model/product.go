package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products within a tenant.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	TenantID    uint           `json:"tenant_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product is a sellable item owned by a tenant and optionally pinned to a
// single store.
type Product struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"type:varchar(255);not null"`
	Description     string         `json:"description,omitempty" gorm:"type:text"`
	SKU             string         `json:"sku,omitempty" gorm:"type:varchar(100);index"`
	Barcode         string         `json:"barcode,omitempty" gorm:"type:varchar(100);index"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	CostPrice       float64        `json:"cost_price,omitempty" gorm:"type:decimal(10,2)"`
	CategoryID      *uint          `json:"category_id,omitempty" gorm:"index"`
	TenantID        uint           `json:"tenant_id" gorm:"not null;index"`
	StoreID         *uint          `json:"store_id,omitempty" gorm:"index"`
	Stock           int            `json:"stock" gorm:"default:0"`
	LowStockAlert   int            `json:"low_stock_alert" gorm:"default:0"`
	RequiresRx      bool           `json:"requires_rx" gorm:"default:false"`
	Manufacturer    string         `json:"manufacturer,omitempty" gorm:"type:varchar(255)"`
	GenericName     string         `json:"generic_name,omitempty" gorm:"type:varchar(255)"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// InventoryBatch tracks a received lot of a product with its expiry date.
// Pharmacies dispense from the earliest-expiring batch first.
type InventoryBatch struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ProductID   uint       `json:"product_id" gorm:"not null;index"`
	StoreID     uint       `json:"store_id" gorm:"not null;index"`
	TenantID    uint       `json:"tenant_id" gorm:"not null;index"`
	BatchNumber string     `json:"batch_number" gorm:"type:varchar(100)"`
	Quantity    int        `json:"quantity" gorm:"not null"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty" gorm:"index"`
	CostPrice   float64    `json:"cost_price,omitempty" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
