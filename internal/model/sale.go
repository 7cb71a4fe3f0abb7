package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a buyer record scoped to a tenant.
type Customer struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	FirstName   string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName    string         `json:"last_name" gorm:"type:varchar(100)"`
	Email       string         `json:"email,omitempty" gorm:"type:varchar(100);index"`
	PhoneNumber string         `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	TenantID    uint           `json:"tenant_id" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Sale is a completed or pending checkout at a store.
type Sale struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	InvoiceNumber string     `json:"invoice_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	Subtotal      float64    `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Discount      float64    `json:"discount" gorm:"type:decimal(10,2);default:0"`
	Tax           float64    `json:"tax" gorm:"type:decimal(10,2);default:0"`
	Total         float64    `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string     `json:"payment_method" gorm:"type:varchar(30)"`
	CustomerID    *uint      `json:"customer_id,omitempty" gorm:"index"`
	StaffID       uint       `json:"staff_id" gorm:"not null;index"`
	TenantID      uint       `json:"tenant_id" gorm:"not null;index"`
	StoreID       uint       `json:"store_id" gorm:"not null;index"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:'completed'"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Items    []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID"`
	Customer *Customer  `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// SaleItem is a single line of a sale.
type SaleItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	SaleID    uint    `json:"sale_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Total     float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
