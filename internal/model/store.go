package model

import (
	"time"

	"gorm.io/gorm"
)

// Store represents an operational location of a tenant.
type Store struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;index:idx_stores_tenant_name"`
	Address     string         `json:"address,omitempty" gorm:"type:text"`
	PhoneNumber string         `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	Email       string         `json:"email,omitempty" gorm:"type:varchar(100)"`
	TenantID    uint           `json:"tenant_id" gorm:"not null;index:idx_stores_tenant_name"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tenant     Tenant      `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	UserStores []UserStore `json:"user_stores,omitempty" gorm:"foreignKey:StoreID"`
}
