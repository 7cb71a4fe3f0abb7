package model

import (
	"time"
)

// NotificationType classifies notifications for filtering on the client.
type NotificationType string

const (
	NotificationLowStock      NotificationType = "low_stock"
	NotificationExpiry        NotificationType = "expiry"
	NotificationSaleCompleted NotificationType = "sale_completed"
	NotificationPayment       NotificationType = "payment"
	NotificationSystem        NotificationType = "system"
)

// Notification is a persisted in-app notification for a user. Push delivery
// through FCM is best-effort and separate from this record.
type Notification struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	UserID   uint             `json:"user_id" gorm:"not null;index"`
	Type     NotificationType `json:"type" gorm:"type:varchar(30);not null"`
	Title    string           `json:"title" gorm:"type:varchar(255);not null"`
	Message  string           `json:"message" gorm:"type:text"`
	Metadata string           `json:"metadata,omitempty" gorm:"type:jsonb"`
	IsRead   bool             `json:"is_read" gorm:"default:false;index"`
	ReadAt   *time.Time       `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
