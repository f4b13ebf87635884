package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusServer(t *testing.T, status SubscriptionStatus) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/subscription-status/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(status)
	}))
}

func authedClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "tok", RefreshToken: "ref"}))
	return newTestClient(t, serverURL, store)
}

func TestRefreshExpiredForcesModal(t *testing.T) {
	srv := statusServer(t, SubscriptionStatus{IsValid: false})
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	got, err := state.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateExpired, got)
	assert.True(t, state.ModalOpen())
	assert.ErrorIs(t, state.CloseModal(), ErrPaywallActive)
	assert.True(t, state.ModalOpen(), "overlay stays up in EXPIRED")
}

func TestRefreshTrialActive(t *testing.T) {
	srv := statusServer(t, SubscriptionStatus{
		IsValid: true,
		Subscription: SubscriptionDetail{
			PlanType:      "trial",
			IsTrial:       true,
			DaysRemaining: 3,
		},
	})
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	got, err := state.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateTrialActive, got)
	require.NotNil(t, state.Status())
	assert.Equal(t, 3, state.Status().Subscription.DaysRemaining)

	state.OpenModal()
	assert.NoError(t, state.CloseModal())
	assert.False(t, state.ModalOpen())
}

func TestRefreshPaidActive(t *testing.T) {
	srv := statusServer(t, SubscriptionStatus{
		IsValid: true,
		Subscription: SubscriptionDetail{
			PlanType:      "basic_monthly",
			DaysRemaining: 21,
		},
	})
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	got, err := state.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatePaidActive, got)
	assert.NoError(t, state.CloseModal())
}

func TestRefreshWithoutTokenSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	state := NewSubscriptionState(newTestClient(t, srv.URL, nil))

	got, err := state.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateUnauthenticated, got)
	assert.Equal(t, int32(0), calls.Load())
	assert.ErrorIs(t, state.CloseModal(), ErrPaywallActive)
}

func TestRefreshForbiddenCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Your trial has ended. Subscribe to continue."}`))
	}))
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	got, err := state.Refresh(context.Background())
	require.NoError(t, err, "a server-side paywall answer is a state, not an error")

	assert.Equal(t, StateExpired, got)
	assert.True(t, state.ModalOpen())
	assert.Equal(t, "Your trial has ended. Subscribe to continue.", state.Message())
}

func TestRefreshTransientErrorKeepsState(t *testing.T) {
	okStatus := SubscriptionStatus{
		IsValid:      true,
		Subscription: SubscriptionDetail{IsTrial: true, DaysRemaining: 5},
	}
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(okStatus)
	}))
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	_, err := state.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateTrialActive, state.Current())

	failing = true
	got, err := state.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateTrialActive, got, "a flaky backend does not lock the app")
}

func TestOnLogoutResets(t *testing.T) {
	srv := statusServer(t, SubscriptionStatus{IsValid: false})
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))
	_, err := state.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateExpired, state.Current())
	require.True(t, state.ModalOpen())

	state.OnLogout()

	assert.Equal(t, StateUnauthenticated, state.Current())
	assert.False(t, state.ModalOpen())
	assert.Nil(t, state.Status())
}

func TestConcurrentRefreshSharesOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(SubscriptionStatus{
			IsValid:      true,
			Subscription: SubscriptionDetail{PlanType: "pro_monthly"},
		})
	}))
	defer srv.Close()

	state := NewSubscriptionState(authedClient(t, srv.URL))

	results := make(chan State, 2)
	refresh := func() {
		got, err := state.Refresh(context.Background())
		assert.NoError(t, err)
		results <- got
	}

	go refresh()
	// Wait until the leader is parked inside the handler, so the
	// follower is guaranteed to find an in-flight fetch.
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	go refresh()
	time.Sleep(50 * time.Millisecond)
	close(release)

	first, second := <-results, <-results
	assert.Equal(t, StatePaidActive, first)
	assert.Equal(t, StatePaidActive, second)
	assert.Equal(t, int32(1), calls.Load(), "followers wait on the leader's fetch")
}
