package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff member of a tenant. Email is unique per tenant
// (composite index) and, by registration policy, globally unique as well.
type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Email          string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_email"`
	Password       string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName       string         `json:"last_name" gorm:"type:varchar(100)"`
	Role           UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'cashier'"`
	PhoneNumber    string         `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	AvatarURL      string         `json:"avatar_url,omitempty" gorm:"type:varchar(255)"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	TenantID       uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_users_tenant_email"`
	CurrentStoreID *uint          `json:"current_store_id,omitempty" gorm:"index"`
	FCMToken       string         `json:"-" gorm:"type:varchar(512)"`
	LastLoginAt    *time.Time     `json:"last_login_at,omitempty"`
	LastLoginIP    string         `json:"-" gorm:"type:varchar(45)"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tenant     Tenant      `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	UserStores []UserStore `json:"user_stores,omitempty" gorm:"foreignKey:UserID"`
}
