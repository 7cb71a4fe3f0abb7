package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pos-service/pkg/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Messenger sends push notifications through Firebase Cloud Messaging. When
// credentials are missing or initialization fails it stays uninitialized and
// every send is a silent no-op at the caller's discretion.
type Messenger struct {
	client *messaging.Client
	log    *zap.Logger
}

// NewMessenger initializes the FCM client from service account credentials.
func NewMessenger(ctx context.Context, cfg *config.FirebaseConfig, log *zap.Logger) *Messenger {
	if log == nil {
		log = zap.NewNop()
	}

	m := &Messenger{log: log}

	if cfg.ProjectID == "" || cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		log.Warn("Firebase credentials not configured, push notifications disabled")
		return m
	}

	// Env vars carry the key with literal \n sequences
	privateKey := strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")

	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  privateKey,
	})
	if err != nil {
		log.Error("Failed to build Firebase credentials", zap.Error(err))
		return m
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		log.Error("Failed to initialize Firebase app", zap.Error(err))
		return m
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Error("Failed to initialize Firebase messaging", zap.Error(err))
		return m
	}

	m.client = client
	log.Info("Firebase messaging initialized", zap.String("project_id", cfg.ProjectID))
	return m
}

// IsInitialized reports whether the messaging client is usable.
func (m *Messenger) IsInitialized() bool {
	return m.client != nil
}

// SendToToken delivers a notification to a single device token.
func (m *Messenger) SendToToken(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	if m.client == nil {
		return "", nil
	}

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
	}

	id, err := m.client.Send(ctx, msg)
	if err != nil {
		return "", err
	}

	m.log.Debug("Push notification sent", zap.String("message_id", id))
	return id, nil
}

// SendToTopic delivers a notification to every subscriber of a topic.
func (m *Messenger) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error) {
	if m.client == nil {
		return "", nil
	}

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Topic: topic,
	}

	id, err := m.client.Send(ctx, msg)
	if err != nil {
		return "", err
	}

	m.log.Debug("Topic notification sent", zap.String("topic", topic), zap.String("message_id", id))
	return id, nil
}

// SubscribeToTopic subscribes device tokens to a topic.
func (m *Messenger) SubscribeToTopic(ctx context.Context, tokens []string, topic string) error {
	if m.client == nil {
		return nil
	}

	resp, err := m.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return err
	}

	m.log.Info("Tokens subscribed to topic",
		zap.String("topic", topic),
		zap.Int("success_count", resp.SuccessCount))
	return nil
}

// TopicName derives the per-tenant, per-store event topic.
func TopicName(tenantID, storeID uint, eventType string) string {
	return fmt.Sprintf("tenant-%d-store-%d-%s", tenantID, storeID, eventType)
}
