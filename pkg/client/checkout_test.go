package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	result CheckoutResult
	err    error
	orders []*Order
}

func (g *stubGateway) Collect(_ context.Context, order *Order) (CheckoutResult, error) {
	g.orders = append(g.orders, order)
	return g.result, g.err
}

func checkoutBackend(t *testing.T, verifyCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/create-order/":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "plan-basic", body["plan_id"])
			_ = json.NewEncoder(w).Encode(Order{
				OrderID:  "order_123",
				Amount:   29900,
				Currency: "INR",
				Key:      "rzp_test_key",
				PlanName: "Basic Monthly",
			})
		case "/api/payments/verify-payment/":
			verifyCalls.Add(1)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "order_123", body["razorpay_order_id"])
			assert.Equal(t, "pay_456", body["razorpay_payment_id"])
			assert.Equal(t, "sig_789", body["razorpay_signature"])
			_ = json.NewEncoder(w).Encode(map[string]SubscriptionStatus{
				"status": {
					IsValid:      true,
					Subscription: SubscriptionDetail{PlanType: "basic_monthly", DaysRemaining: 30},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
}

func TestSubscribeSuccessUnlocks(t *testing.T) {
	var verifyCalls atomic.Int32
	srv := checkoutBackend(t, &verifyCalls)
	defer srv.Close()

	api := authedClient(t, srv.URL)
	state := NewSubscriptionState(api)
	state.OpenModal()

	gw := &stubGateway{result: CheckoutResult{
		Outcome:   CheckoutSuccess,
		PaymentID: "pay_456",
		Signature: "sig_789",
	}}

	status, err := NewCheckoutFlow(api, gw, state).Subscribe(context.Background(), "plan-basic")
	require.NoError(t, err)

	assert.True(t, status.IsValid)
	assert.Equal(t, int32(1), verifyCalls.Load())
	require.Len(t, gw.orders, 1)
	assert.Equal(t, "order_123", gw.orders[0].OrderID)

	assert.Equal(t, StatePaidActive, state.Current())
	assert.False(t, state.ModalOpen(), "paywall closes after a verified payment")
}

func TestSubscribeCancelledLeavesStateAlone(t *testing.T) {
	var verifyCalls atomic.Int32
	srv := checkoutBackend(t, &verifyCalls)
	defer srv.Close()

	api := authedClient(t, srv.URL)
	state := NewSubscriptionState(api)
	state.OpenModal()

	gw := &stubGateway{result: CheckoutResult{Outcome: CheckoutCancelled}}

	_, err := NewCheckoutFlow(api, gw, state).Subscribe(context.Background(), "plan-basic")
	require.ErrorIs(t, err, ErrCheckoutCancelled)

	assert.Equal(t, int32(0), verifyCalls.Load(), "nothing to verify after a cancel")
	assert.Equal(t, StateUnknown, state.Current())
	assert.True(t, state.ModalOpen(), "paywall stays up")
}

func TestSubscribeFailedReportsReason(t *testing.T) {
	var verifyCalls atomic.Int32
	srv := checkoutBackend(t, &verifyCalls)
	defer srv.Close()

	api := authedClient(t, srv.URL)
	gw := &stubGateway{result: CheckoutResult{
		Outcome: CheckoutFailed,
		Reason:  "card declined",
	}}

	_, err := NewCheckoutFlow(api, gw, nil).Subscribe(context.Background(), "plan-basic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card declined")
	assert.Equal(t, int32(0), verifyCalls.Load())
}

func TestSubscribeVerificationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/create-order/":
			_ = json.NewEncoder(w).Encode(Order{OrderID: "order_123"})
		case "/api/payments/verify-payment/":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Payment verification failed"}`))
		}
	}))
	defer srv.Close()

	api := authedClient(t, srv.URL)
	state := NewSubscriptionState(api)
	state.OpenModal()

	gw := &stubGateway{result: CheckoutResult{
		Outcome:   CheckoutSuccess,
		PaymentID: "pay_456",
		Signature: "forged",
	}}

	_, err := NewCheckoutFlow(api, gw, state).Subscribe(context.Background(), "plan-basic")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))

	assert.Equal(t, StateUnknown, state.Current(), "a rejected signature grants nothing")
	assert.True(t, state.ModalOpen())
}
