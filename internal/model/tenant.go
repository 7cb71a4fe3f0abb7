package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a pharmacy organization. It is the isolation boundary for
// all other data: users, stores, products, and sales all hang off a tenant.
type Tenant struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	Name                  string         `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email                 string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PhoneNumber           string         `json:"phone_number,omitempty" gorm:"type:varchar(30)"`
	Address               string         `json:"address,omitempty" gorm:"type:text"`
	IsActive              bool           `json:"is_active" gorm:"default:true"`
	SubscriptionExpiresAt *time.Time     `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Users  []User  `json:"users,omitempty" gorm:"foreignKey:TenantID"`
	Stores []Store `json:"stores,omitempty" gorm:"foreignKey:TenantID"`
}
