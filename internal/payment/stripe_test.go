package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-service/pkg/config"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{10, 1000},
		{19.99, 1999},
		{0.1, 10},
		{29.999, 3000},
		{0, 0},
	}
	for _, tc := range cases {
		if got := toMinorUnits(tc.amount); got != tc.want {
			t.Errorf("toMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestStripeNotConfigured(t *testing.T) {
	s := NewStripe(&config.StripeConfig{Timeout: 15 * time.Second}, nil)

	if s.IsInitialized() {
		t.Fatalf("adapter without secret key must not initialize")
	}

	if _, err := s.CreatePaymentIntent(context.Background(), 10, "usd", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CreatePaymentIntent err = %v, want ErrNotConfigured", err)
	}
	if _, err := s.RefundPayment(context.Background(), "pi_123", nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("RefundPayment err = %v, want ErrNotConfigured", err)
	}
}

func TestVerifyWebhookSignatureWithoutSecret(t *testing.T) {
	s := NewStripe(&config.StripeConfig{SecretKey: "sk_test_abc", Timeout: time.Second}, nil)

	if event := s.VerifyWebhookSignature([]byte(`{}`), "t=1,v1=bad"); event != nil {
		t.Fatalf("missing webhook secret must yield nil event")
	}
}

func TestVerifyWebhookSignatureRejectsBadSignature(t *testing.T) {
	s := NewStripe(&config.StripeConfig{
		SecretKey:     "sk_test_abc",
		WebhookSecret: "whsec_test",
		Timeout:       time.Second,
	}, nil)

	if event := s.VerifyWebhookSignature([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef"); event != nil {
		t.Fatalf("bad signature must yield nil event")
	}
}
