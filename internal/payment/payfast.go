package payment

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"pos-service/pkg/config"

	"go.uber.org/zap"
)

const (
	payfastSandboxURL    = "https://sandbox.payfast.co.za"
	payfastProductionURL = "https://www.payfast.co.za"
)

// PayFast builds signed payment redirect URLs and verifies inbound ITN
// (Instant Transaction Notification) callbacks. The signature scheme is the
// provider's: sorted fields, URI-component encoding with space-as-plus, raw
// passphrase suffix, lowercase-hex MD5.
type PayFast struct {
	merchantID  string
	merchantKey string
	passphrase  string
	baseURL     string
	log         *zap.Logger
}

// NewPayFast constructs the codec from configuration. Missing merchant ID or
// key leaves it uninitialized; every operation then fails with
// ErrNotConfigured.
func NewPayFast(cfg *config.PayFastConfig, log *zap.Logger) *PayFast {
	if log == nil {
		log = zap.NewNop()
	}

	p := &PayFast{
		merchantID:  cfg.MerchantID,
		merchantKey: cfg.MerchantKey,
		passphrase:  cfg.Passphrase,
		log:         log,
	}

	if !p.IsInitialized() {
		log.Warn("PayFast credentials not configured, payment processing disabled")
		return p
	}

	if cfg.Mode == "production" {
		p.baseURL = payfastProductionURL
	} else {
		p.baseURL = payfastSandboxURL
	}

	log.Info("PayFast initialized", zap.String("mode", cfg.Mode))
	return p
}

// IsInitialized reports whether merchant credentials are present.
func (p *PayFast) IsInitialized() bool {
	return p.merchantID != "" && p.merchantKey != ""
}

// PaymentParams carries the fields of an outbound payment request. Extra
// holds optional provider fields merged in verbatim.
type PaymentParams struct {
	Amount    float64
	ItemName  string
	ReturnURL string
	CancelURL string
	NotifyURL string
	Extra     map[string]string
}

// GeneratePaymentURL builds the signed redirect URL for the provider's
// payment page.
func (p *PayFast) GeneratePaymentURL(params PaymentParams) (string, error) {
	if !p.IsInitialized() {
		return "", ErrNotConfigured
	}
	if p.passphrase == "" {
		return "", fmt.Errorf("payfast passphrase not configured")
	}

	data := map[string]string{
		"merchant_id":  p.merchantID,
		"merchant_key": p.merchantKey,
		"amount":       fmt.Sprintf("%.2f", params.Amount),
		"item_name":    params.ItemName,
		"return_url":   params.ReturnURL,
		"cancel_url":   params.CancelURL,
		"notify_url":   params.NotifyURL,
	}
	for k, v := range params.Extra {
		data[k] = v
	}

	// Empty values are excluded from the request and the signature. "0" is a
	// legitimate value and stays.
	for k, v := range data {
		if v == "" {
			delete(data, k)
		}
	}

	data["signature"] = p.Signature(data)

	values := url.Values{}
	for k, v := range data {
		values.Set(k, v)
	}

	return p.baseURL + "/eng/process?" + values.Encode(), nil
}

// Signature computes the provider signature over data, ignoring any
// "signature" key already present.
func (p *PayFast) Signature(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+encodeComponent(data[k]))
	}

	// The passphrase is appended raw, unencoded
	signatureString := strings.Join(pairs, "&") + "&passphrase=" + p.passphrase

	sum := md5.Sum([]byte(signatureString))
	return hex.EncodeToString(sum[:])
}

// VerifyITN validates an inbound notification: fails closed when not
// configured, rejects foreign merchant IDs, and recomputes the signature over
// all fields except the signature itself.
func (p *PayFast) VerifyITN(data map[string]string) bool {
	if !p.IsInitialized() {
		return false
	}

	if data["merchant_id"] != p.merchantID {
		return false
	}

	received := data["signature"]
	calculated := p.Signature(data)

	return subtle.ConstantTimeCompare([]byte(received), []byte(calculated)) == 1
}

// encodeComponent percent-encodes v the way JS encodeURIComponent does
// (unreserved set A-Za-z0-9 -_.!~*'() left bare, uppercase hex) and then
// applies the provider's space-as-plus convention. The provider recomputes
// signatures with this exact encoding, so it cannot be swapped for
// url.QueryEscape.
func encodeComponent(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
		} else if c == ' ' {
			b.WriteByte('+')
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
