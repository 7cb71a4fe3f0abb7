package push

import (
	"context"
	"testing"

	"pos-service/pkg/config"
)

func TestTopicName(t *testing.T) {
	if got := TopicName(3, 7, "sales"); got != "tenant-3-store-7-sales" {
		t.Fatalf("TopicName = %q", got)
	}
	if got := TopicName(1, 2, "low_stock"); got != "tenant-1-store-2-low_stock" {
		t.Fatalf("TopicName = %q", got)
	}
}

func TestMessengerWithoutCredentials(t *testing.T) {
	m := NewMessenger(context.Background(), &config.FirebaseConfig{}, nil)

	if m.IsInitialized() {
		t.Fatalf("messenger without credentials must not initialize")
	}
	// Sends degrade to silent no-ops rather than errors
	if id, err := m.SendToToken(context.Background(), "tok", "t", "b", nil); err != nil || id != "" {
		t.Fatalf("uninitialized send: id=%q err=%v", id, err)
	}
}
