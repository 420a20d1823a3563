package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	razorpaygo "github.com/razorpay/razorpay-go"

	"github.com/elorielabs/elorie-backend/pkg/config"
)

// OrderCreator is the gateway surface the payment service depends on.
type OrderCreator interface {
	CreateOrder(amountPaise int, currency, receipt string, notes map[string]string) (string, error)
	KeyID() string
}

// Client wraps the Razorpay SDK with the storefront's narrow needs:
// creating gateway orders and verifying checkout signatures.
type Client struct {
	sdk       *razorpaygo.Client
	keyID     string
	keySecret string
}

// New builds a gateway client from configuration.
func New(cfg config.RazorpayConfig) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and secret are required")
	}
	return &Client{
		sdk:       razorpaygo.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
	}, nil
}

// KeyID returns the public key the hosted checkout UI needs.
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order with the gateway and returns its id.
// Amount is in paise, the gateway's smallest-unit convention.
func (c *Client) CreateOrder(amountPaise int, currency, receipt string, notes map[string]string) (string, error) {
	if amountPaise <= 0 {
		return "", fmt.Errorf("order amount must be positive, got %d", amountPaise)
	}
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		noteMap := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteMap[k] = v
		}
		data["notes"] = noteMap
	}

	body, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("creating razorpay order: %w", err)
	}
	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}
	return orderID, nil
}

// VerifyPaymentSignature checks the HMAC-SHA256 signature Razorpay
// hands back after a successful hosted checkout. A payment is only
// trusted once this passes; client-side success callbacks prove
// nothing on their own.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

// VerifySignature implements the documented verification scheme:
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)) must equal the
// signature returned by the checkout UI.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}
