package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukaan_backend/test/helpers"
)

type statusResponse struct {
	IsValid      bool `json:"is_valid"`
	Subscription struct {
		PlanType      string `json:"plan_type"`
		IsTrial       bool   `json:"is_trial"`
		DaysRemaining int    `json:"days_remaining"`
		TrialUsed     bool   `json:"trial_used"`
	} `json:"subscription"`
}

func TestFreshAccountIsPaywalled(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := helpers.RegisterUniqueShop(t, ts)

	// Shop data routes answer 403 with the paywall detail.
	res, body := ts.SendRequest(t, http.MethodGet, "/api/products/", session.Access, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, body, "Your subscription has expired or payment required.")

	// But the routes needed to get OUT of the paywall stay open.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/payments/subscription-status/", session.Access, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.False(t, status.IsValid)
	assert.False(t, status.Subscription.TrialUsed)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/subscription-plans/", session.Access, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/me/", session.Access, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStartTrialUnlocksShop(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := helpers.RegisterUniqueShop(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/payments/start-trial/", session.Access, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp struct {
		Status statusResponse `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Status.IsValid)
	assert.True(t, resp.Status.Subscription.IsTrial)
	assert.True(t, resp.Status.Subscription.TrialUsed)
	assert.Equal(t, 14, resp.Status.Subscription.DaysRemaining)

	// Paywalled routes open up immediately.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/products/", session.Access, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestTrialIsOneShot(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := helpers.RegisterUniqueShop(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/payments/start-trial/", session.Access, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/payments/start-trial/", session.Access, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "Trial already used")
}

func TestAdminAllowedBypassesPaywall(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)
	session := helpers.RegisterUniqueShop(t, ts)
	helpers.GrantSubscription(t, ts.DB, session.UserID)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/products/", session.Access, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/payments/subscription-status/", session.Access, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.True(t, status.IsValid)
}

func TestPaywalledRoutesRequireAuthFirst(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/products/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "missing token is 401, not 403")
}
