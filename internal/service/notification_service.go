package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"pos-service/internal/model"
	"pos-service/internal/push"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pushTimeout bounds every call into the push provider so notification
// delivery can never stall a business operation.
const pushTimeout = 5 * time.Second

// PushSender is the push provider surface the notification service needs.
// Satisfied by push.Messenger; tests substitute an in-memory fake.
type PushSender interface {
	IsInitialized() bool
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) (string, error)
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error)
}

// NotificationService persists notification records and forwards best-effort
// push deliveries to FCM.
type NotificationService struct {
	db   *gorm.DB
	push PushSender
	log  *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, sender PushSender, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{db: db, push: sender, log: log}
}

// NotificationPage is one page of a user's notifications with pagination
// metadata.
type NotificationPage struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	Page          int                  `json:"page"`
	Limit         int                  `json:"limit"`
	TotalPages    int                  `json:"totalPages"`
	HasNext       bool                 `json:"hasNext"`
	HasPrev       bool                 `json:"hasPrev"`
}

// CreateNotification persists an unread notification row for the user.
func (s *NotificationService) CreateNotification(userID uint, notifType model.NotificationType, title, message string, metadata map[string]interface{}) (*model.Notification, error) {
	meta := ""
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		meta = string(raw)
	}

	notification := model.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Metadata: meta,
		IsRead:   false,
	}

	if result := s.db.Create(&notification); result.Error != nil {
		return nil, result.Error
	}
	return &notification, nil
}

// SendPushNotification delivers a push message to the user's registered
// device. Missing tokens and provider failures are absorbed: push delivery is
// best-effort and never fails the calling operation.
func (s *NotificationService) SendPushNotification(ctx context.Context, userID uint, title, body string, data map[string]string) {
	if s.push == nil || !s.push.IsInitialized() {
		return
	}

	var user model.User
	if result := s.db.First(&user, userID); result.Error != nil || user.FCMToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if _, err := s.push.SendToToken(ctx, user.FCMToken, title, body, data); err != nil {
		s.log.Error("Failed to send push notification",
			zap.Uint("user_id", userID),
			zap.Error(err))
	}
}

// SendTopicNotification broadcasts to every device subscribed to a
// tenant/store event topic. Best-effort like SendPushNotification.
func (s *NotificationService) SendTopicNotification(ctx context.Context, tenantID, storeID uint, eventType, title, body string, data map[string]string) {
	if s.push == nil || !s.push.IsInitialized() {
		return
	}

	topic := push.TopicName(tenantID, storeID, eventType)

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if _, err := s.push.SendToTopic(ctx, topic, title, body, data); err != nil {
		s.log.Error("Failed to send topic notification",
			zap.String("topic", topic),
			zap.Error(err))
	}
}

// GetUserNotifications returns one newest-first page of the user's
// notifications plus pagination metadata.
func (s *NotificationService) GetUserNotifications(userID uint, page, limit int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&model.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var notifications []model.Notification
	result := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		Limit:         limit,
		TotalPages:    totalPages,
		HasNext:       page < totalPages,
		HasPrev:       page > 1 && total > 0,
	}, nil
}

// MarkAsRead flips one of the user's notifications to read.
func (s *NotificationService) MarkAsRead(notificationID, userID uint) error {
	now := time.Now()
	result := s.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllAsRead flips all of the user's unread notifications to read.
func (s *NotificationService) MarkAllAsRead(userID uint) error {
	now := time.Now()
	return s.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// RegisterFCMToken stores the user's device token for push delivery.
func (s *NotificationService) RegisterFCMToken(userID uint, token string) error {
	result := s.db.Model(&model.User{}).Where("id = ?", userID).Update("fcm_token", token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
