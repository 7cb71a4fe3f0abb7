package payment

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"pos-service/pkg/config"
)

func newTestPayFast(t *testing.T) *PayFast {
	t.Helper()
	return NewPayFast(&config.PayFastConfig{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		Mode:        "sandbox",
	}, nil)
}

func TestGeneratePaymentURL(t *testing.T) {
	p := newTestPayFast(t)

	raw, err := p.GeneratePaymentURL(PaymentParams{
		Amount:    199.9,
		ItemName:  "Monthly subscription",
		ReturnURL: "https://example.com/return",
		CancelURL: "https://example.com/cancel",
		NotifyURL: "https://example.com/notify",
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.HasPrefix(raw, "https://sandbox.payfast.co.za/eng/process?") {
		t.Fatalf("unexpected base URL: %s", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	q := parsed.Query()

	if got := q.Get("amount"); got != "199.90" {
		t.Errorf("amount = %q, want 199.90", got)
	}
	if q.Get("merchant_id") != "10000100" {
		t.Errorf("merchant_id missing from URL")
	}
	if q.Get("signature") == "" {
		t.Errorf("signature missing from URL")
	}
}

func TestGeneratePaymentURLKeepsZeroValues(t *testing.T) {
	p := newTestPayFast(t)

	raw, err := p.GeneratePaymentURL(PaymentParams{
		Amount:    50,
		ItemName:  "Top-up",
		ReturnURL: "https://example.com/return",
		CancelURL: "https://example.com/cancel",
		NotifyURL: "https://example.com/notify",
		Extra: map[string]string{
			"custom_int1": "0",
			"custom_str1": "",
		},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	q, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	values := q.Query()

	if got := values.Get("custom_int1"); got != "0" {
		t.Errorf("custom_int1 = %q, want zero to survive", got)
	}
	if _, ok := values["custom_str1"]; ok {
		t.Errorf("empty custom_str1 should be dropped")
	}
}

func TestGeneratePaymentURLNotConfigured(t *testing.T) {
	p := NewPayFast(&config.PayFastConfig{}, nil)

	_, err := p.GeneratePaymentURL(PaymentParams{Amount: 10, ItemName: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSignatureEncoding(t *testing.T) {
	p := newTestPayFast(t)

	// The signature string uses the provider's encoding: spaces become
	// pluses, reserved characters use uppercase hex.
	withSpaces := p.Signature(map[string]string{"item_name": "Cough Syrup 100ml"})
	withPlus := p.Signature(map[string]string{"item_name": "Cough+Syrup+100ml"})
	if withSpaces == withPlus {
		t.Fatalf("space and literal plus must encode differently")
	}

	a := p.Signature(map[string]string{"k": "a/b"})
	b := p.Signature(map[string]string{"k": "a%2Fb"})
	if a == b {
		t.Fatalf("slash and pre-encoded slash must encode differently")
	}
}

func TestSignatureIgnoresSignatureField(t *testing.T) {
	p := newTestPayFast(t)

	data := map[string]string{
		"merchant_id": "10000100",
		"amount":      "100.00",
	}
	want := p.Signature(data)

	data["signature"] = want
	if got := p.Signature(data); got != want {
		t.Fatalf("signature over signed data = %s, want %s", got, want)
	}
}

func TestVerifyITN(t *testing.T) {
	p := newTestPayFast(t)

	data := map[string]string{
		"merchant_id":    "10000100",
		"amount_gross":   "250.00",
		"payment_status": "COMPLETE",
		"pf_payment_id":  "1089250",
	}
	data["signature"] = p.Signature(data)

	if !p.VerifyITN(data) {
		t.Fatalf("valid notification rejected")
	}

	// Any mutated field invalidates the signature
	data["amount_gross"] = "2.50"
	if p.VerifyITN(data) {
		t.Fatalf("tampered notification accepted")
	}
}

func TestVerifyITNRejectsForeignMerchant(t *testing.T) {
	p := newTestPayFast(t)

	data := map[string]string{
		"merchant_id":    "99999999",
		"payment_status": "COMPLETE",
	}
	data["signature"] = p.Signature(data)

	if p.VerifyITN(data) {
		t.Fatalf("notification for another merchant accepted")
	}
}

func TestVerifyITNFailsClosedWhenUnconfigured(t *testing.T) {
	p := NewPayFast(&config.PayFastConfig{}, nil)

	if p.VerifyITN(map[string]string{"merchant_id": ""}) {
		t.Fatalf("unconfigured codec must reject all notifications")
	}
}

func TestEncodeComponent(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello world", "hello+world"},
		{"a&b=c", "a%26b%3Dc"},
		{"safe-_.!~*'()", "safe-_.!~*'()"},
		{"https://example.com/return", "https%3A%2F%2Fexample.com%2Freturn"},
	}
	for _, tc := range cases {
		if got := encodeComponent(tc.in); got != tc.want {
			t.Errorf("encodeComponent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
