package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/elorielabs/elorie-backend/pkg/config"
)

func configWith(keyID, secret string) config.RazorpayConfig {
	return config.RazorpayConfig{KeyID: keyID, KeySecret: secret}
}

func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	orderID := "order_IluGWxBm9U8zJ8"
	paymentID := "pay_29QQoUBi66xm2f"
	good := signFor(secret, orderID, paymentID)

	if !VerifySignature(secret, orderID, paymentID, good) {
		t.Fatal("expected valid signature to verify")
	}
	if !VerifySignature(secret, " "+orderID+" ", paymentID, good) {
		t.Fatal("whitespace around ids should not break verification")
	}
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	secret := "test_secret"
	orderID := "order_IluGWxBm9U8zJ8"
	paymentID := "pay_29QQoUBi66xm2f"
	good := signFor(secret, orderID, paymentID)

	cases := map[string]struct {
		orderID   string
		paymentID string
		signature string
	}{
		"wrong order":     {"order_other", paymentID, good},
		"wrong payment":   {orderID, "pay_other", good},
		"wrong signature": {orderID, paymentID, signFor("other_secret", orderID, paymentID)},
		"empty signature": {orderID, paymentID, ""},
		"empty order":     {"", paymentID, good},
		"empty payment":   {orderID, "", good},
	}

	for name, tc := range cases {
		if VerifySignature(secret, tc.orderID, tc.paymentID, tc.signature) {
			t.Fatalf("%s: expected verification to fail", name)
		}
	}
}

func TestVerifySignatureEmptySecret(t *testing.T) {
	if VerifySignature("", "order", "payment", "deadbeef") {
		t.Fatal("empty secret must never verify")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(configWith("", "secret")); err == nil {
		t.Fatal("expected error without key id")
	}
	if _, err := New(configWith("key", "")); err == nil {
		t.Fatal("expected error without key secret")
	}
	client, err := New(configWith("rzp_test_key", "secret"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.KeyID() != "rzp_test_key" {
		t.Fatalf("unexpected key id %q", client.KeyID())
	}
}
