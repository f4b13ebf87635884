package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukaan_backend/test/helpers"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("auth_%d@test.com", time.Now().UnixNano())
	session := helpers.RegisterShop(t, ts, "Gupta General Store", email, "password123")
	require.NotEmpty(t, session.ShopID, "registration creates the shop")

	// Login with the right password.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/token/", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	// Wrong password is rejected without detail leakage.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/token/", "", map[string]interface{}{
		"email":    email,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}

func TestDuplicateEmailRejected(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("dup_%d@test.com", time.Now().UnixNano())
	helpers.RegisterShop(t, ts, "First Shop", email, "password123")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/register-shop/", "", map[string]interface{}{
		"shop_name": "Second Shop",
		"name":      "Second Owner",
		"email":     email,
		"password":  "password123",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	session := helpers.RegisterUniqueShop(t, ts)

	// First exchange succeeds and rotates the token.
	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/refresh/", "", map[string]interface{}{
		"refresh": session.Refresh,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var rotated struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &rotated))
	assert.NotEmpty(t, rotated.Access)
	assert.NotEmpty(t, rotated.Refresh)
	assert.NotEqual(t, session.Refresh, rotated.Refresh)

	// Replaying the consumed token fails.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh/", "", map[string]interface{}{
		"refresh": session.Refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	// The rotated token still works.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh/", "", map[string]interface{}{
		"refresh": rotated.Refresh,
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("me_%d@test.com", time.Now().UnixNano())
	session := helpers.RegisterShop(t, ts, "Sharma Kirana", email, "password123")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/me/", session.Access, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, email)
	assert.Contains(t, body, "Sharma Kirana")

	// No token, no profile.
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	session := helpers.RegisterUniqueShop(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/logout/", session.Access, map[string]interface{}{
		"refresh": session.Refresh,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh/", "", map[string]interface{}{
		"refresh": session.Refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}
