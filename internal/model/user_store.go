package model

import (
	"time"
)

// UserStore grants a user access to a store. One row per (user, store) pair,
// enforced by the composite unique index. At most one row per user carries
// IsDefault=true; the store access service keeps that invariant.
type UserStore struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_stores_user_store"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_user_stores_user_store"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Store Store `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}
