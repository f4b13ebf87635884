package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dukaan_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	gw := NewRazorpayGateway(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret123",
	})

	valid := sign("secret123", "order_abc|pay_xyz")

	assert.True(t, gw.VerifyPaymentSignature("order_abc", "pay_xyz", valid))
	assert.False(t, gw.VerifyPaymentSignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, gw.VerifyPaymentSignature("order_other", "pay_xyz", valid))
	assert.False(t, gw.VerifyPaymentSignature("order_abc", "pay_xyz", ""))
}

func TestVerifyPaymentSignatureNoSecret(t *testing.T) {
	gw := NewRazorpayGateway(config.RazorpayConfig{KeyID: "rzp_test_key"})
	// An unconfigured secret must never verify anything.
	assert.False(t, gw.VerifyPaymentSignature("o", "p", sign("", "o|p")))
}

func TestVerifyWebhookSignature(t *testing.T) {
	gw := NewRazorpayGateway(config.RazorpayConfig{
		KeySecret:     "apisecret",
		WebhookSecret: "hooksecret",
	})

	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, gw.VerifyWebhookSignature(body, sign("hooksecret", string(body))))
	// The API secret must not be accepted for webhooks.
	assert.False(t, gw.VerifyWebhookSignature(body, sign("apisecret", string(body))))
	assert.False(t, gw.VerifyWebhookSignature([]byte(`tampered`), sign("hooksecret", string(body))))
}

func TestCreateOrder(t *testing.T) {
	var gotAuthUser, gotAuthPass string
	var gotReq createOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_generated",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret123",
		BaseURL:   srv.URL,
	})

	order, err := gw.CreateOrder(context.Background(), 29900, "INR", "rcpt_1", map[string]string{"plan_id": "p1"})
	require.NoError(t, err)

	assert.Equal(t, "order_generated", order.ID)
	assert.Equal(t, int64(29900), order.Amount)
	assert.Equal(t, "rzp_test_key", gotAuthUser)
	assert.Equal(t, "secret123", gotAuthPass)
	assert.Equal(t, int64(29900), gotReq.Amount)
	assert.Equal(t, "rcpt_1", gotReq.Receipt)
	assert.Equal(t, "p1", gotReq.Notes["plan_id"])
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer srv.Close()

	gw := NewRazorpayGateway(config.RazorpayConfig{
		KeyID:     "k",
		KeySecret: "s",
		BaseURL:   srv.URL,
	})

	_, err := gw.CreateOrder(context.Background(), 1, "INR", "rcpt", nil)
	assert.Error(t, err)
}
