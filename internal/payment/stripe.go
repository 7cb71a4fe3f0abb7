package payment

import (
	"context"
	"math"
	"net/http"

	"pos-service/pkg/config"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Stripe is a thin adapter over the Stripe API client: payment intents,
// refunds, and webhook signature verification.
type Stripe struct {
	api           *client.API
	webhookSecret string
	log           *zap.Logger
}

// NewStripe constructs the adapter. Without a secret key the adapter stays
// uninitialized and every call fails with ErrNotConfigured.
func NewStripe(cfg *config.StripeConfig, log *zap.Logger) *Stripe {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Stripe{webhookSecret: cfg.WebhookSecret, log: log}

	if cfg.SecretKey == "" {
		log.Warn("Stripe secret key not configured, payment processing disabled")
		return s
	}

	// Bound every outbound call so a slow provider cannot hold requests open
	httpClient := &http.Client{Timeout: cfg.Timeout}
	api := &client.API{}
	api.Init(cfg.SecretKey, stripe.NewBackends(httpClient))
	s.api = api

	log.Info("Stripe initialized")
	return s
}

// IsInitialized reports whether an API secret was configured.
func (s *Stripe) IsInitialized() bool {
	return s.api != nil
}

// CreatePaymentIntent creates a payment intent for amount in major units of
// currency (default "usd"). Provider failures propagate to the caller.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	if !s.IsInitialized() {
		return nil, ErrNotConfigured
	}

	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("Failed to create payment intent",
			zap.Float64("amount", amount),
			zap.String("currency", currency),
			zap.Error(err))
		return nil, err
	}

	return intent, nil
}

// RefundPayment refunds a payment intent. A nil amount refunds in full;
// otherwise the given major-unit amount is refunded.
func (s *Stripe) RefundPayment(ctx context.Context, paymentIntentID string, amount *float64) (*stripe.Refund, error) {
	if !s.IsInitialized() {
		return nil, ErrNotConfigured
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx
	if amount != nil {
		params.Amount = stripe.Int64(toMinorUnits(*amount))
	}

	refund, err := s.api.Refunds.New(params)
	if err != nil {
		s.log.Error("Failed to process refund",
			zap.String("payment_intent", paymentIntentID),
			zap.Error(err))
		return nil, err
	}

	return refund, nil
}

// VerifyWebhookSignature verifies an inbound webhook payload against the
// configured webhook secret. Returns nil, never an error: a nil event means
// the payload cannot be trusted.
func (s *Stripe) VerifyWebhookSignature(payload []byte, sigHeader string) *stripe.Event {
	if s.webhookSecret == "" {
		s.log.Warn("Stripe webhook secret not configured")
		return nil
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		s.log.Error("Webhook signature verification failed", zap.Error(err))
		return nil
	}

	return &event
}

// toMinorUnits converts a major-unit amount to the provider's integer minor
// units (cents), rounding half away from zero.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
