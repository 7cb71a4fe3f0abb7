package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"pos-service/internal/payment"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateStripeIntent creates a Stripe payment intent
func CreateStripeIntent(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Amount   float64           `json:"amount"`
		Currency string            `json:"currency,omitempty"`
		Metadata map[string]string `json:"metadata,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment intent request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	defer prometheus.TrackProviderCall("stripe")(time.Now())
	intent, err := svc.Stripe.CreatePaymentIntent(c.Request().Context(), req.Amount, req.Currency, req.Metadata)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			prometheus.RecordPaymentOperation("stripe", "create_intent", "not_configured")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment processing is not available"})
		}
		log.Error("Failed to create payment intent", zap.Error(err))
		prometheus.RecordPaymentOperation("stripe", "create_intent", "error")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment intent creation failed"})
	}

	prometheus.RecordPaymentOperation("stripe", "create_intent", "success")
	log.Info("Payment intent created",
		zap.String("intent_id", intent.ID),
		zap.Float64("amount", req.Amount))

	return c.JSON(http.StatusOK, intent)
}

// RefundStripePayment refunds a payment intent, optionally partially
func RefundStripePayment(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		PaymentIntentID string   `json:"paymentIntentId"`
		Amount          *float64 `json:"amount,omitempty"`
	}

	if err := c.Bind(&req); err != nil || req.PaymentIntentID == "" {
		log.Error("Invalid refund request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "paymentIntentId is required"})
	}

	defer prometheus.TrackProviderCall("stripe")(time.Now())
	refund, err := svc.Stripe.RefundPayment(c.Request().Context(), req.PaymentIntentID, req.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			prometheus.RecordPaymentOperation("stripe", "refund", "not_configured")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment processing is not available"})
		}
		log.Error("Failed to process refund", zap.Error(err))
		prometheus.RecordPaymentOperation("stripe", "refund", "error")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "refund failed"})
	}

	prometheus.RecordPaymentOperation("stripe", "refund", "success")
	return c.JSON(http.StatusOK, refund)
}

// StripeWebhook verifies and acknowledges Stripe webhook events. An
// unverifiable payload answers {received:false} rather than an error so the
// provider decides whether to retry.
func StripeWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Error("Failed to read webhook body", zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{"received": false})
	}

	signature := c.Request().Header.Get("stripe-signature")
	event := svc.Stripe.VerifyWebhookSignature(payload, signature)
	if event == nil {
		prometheus.RecordPaymentOperation("stripe", "webhook", "invalid")
		return c.JSON(http.StatusOK, echo.Map{"received": false})
	}

	switch event.Type {
	case "payment_intent.succeeded":
		log.Info("Payment succeeded", zap.String("event_id", event.ID))
	case "payment_intent.payment_failed":
		log.Warn("Payment failed", zap.String("event_id", event.ID))
	default:
		log.Debug("Unhandled webhook event", zap.String("type", string(event.Type)))
	}

	prometheus.RecordPaymentOperation("stripe", "webhook", "success")
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// GeneratePayFastURL builds a signed PayFast redirect URL
func GeneratePayFastURL(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Amount    float64           `json:"amount"`
		ItemName  string            `json:"itemName"`
		ReturnURL string            `json:"returnUrl"`
		CancelURL string            `json:"cancelUrl"`
		NotifyURL string            `json:"notifyUrl"`
		Extra     map[string]string `json:"extra,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse payment URL request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Amount <= 0 || req.ItemName == "" || req.ReturnURL == "" || req.CancelURL == "" || req.NotifyURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount, itemName, returnUrl, cancelUrl and notifyUrl are required"})
	}

	url, err := svc.PayFast.GeneratePaymentURL(payment.PaymentParams{
		Amount:    req.Amount,
		ItemName:  req.ItemName,
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
		NotifyURL: req.NotifyURL,
		Extra:     req.Extra,
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			prometheus.RecordPaymentOperation("payfast", "generate_url", "not_configured")
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment processing is not available"})
		}
		log.Error("Failed to generate payment URL", zap.Error(err))
		prometheus.RecordPaymentOperation("payfast", "generate_url", "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate payment URL"})
	}

	prometheus.RecordPaymentOperation("payfast", "generate_url", "success")
	return c.JSON(http.StatusOK, echo.Map{"paymentUrl": url})
}

// PayFastNotify handles PayFast ITN callbacks. Invalid notifications answer
// {status:"invalid"}; the provider handles retries.
func PayFastNotify(c echo.Context) error {
	log := logger.FromContext(c)

	form, err := c.FormParams()
	if err != nil {
		log.Error("Failed to parse ITN form", zap.Error(err))
		return c.JSON(http.StatusOK, echo.Map{"status": "invalid"})
	}

	data := make(map[string]string, len(form))
	for key := range form {
		data[key] = form.Get(key)
	}

	if !svc.PayFast.VerifyITN(data) {
		log.Warn("ITN verification failed", zap.String("merchant_id", data["merchant_id"]))
		prometheus.RecordPaymentOperation("payfast", "itn", "invalid")
		return c.JSON(http.StatusOK, echo.Map{"status": "invalid"})
	}

	log.Info("ITN verified",
		zap.String("payment_status", data["payment_status"]),
		zap.String("pf_payment_id", data["pf_payment_id"]))
	prometheus.RecordPaymentOperation("payfast", "itn", "success")

	return c.JSON(http.StatusOK, echo.Map{"status": "valid"})
}
