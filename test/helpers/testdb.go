package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dukaan_backend/internal/models"
)

// Session carries what most integration tests need after registering.
type Session struct {
	Access  string
	Refresh string
	UserID  string
	ShopID  string
}

// RegisterShop signs a shop owner up through the API and returns the
// issued session.
func RegisterShop(t *testing.T, ts *TestServer, shopName, email, password string) *Session {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/register-shop/", "", map[string]interface{}{
		"shop_name": shopName,
		"name":      "Test Owner",
		"email":     email,
		"password":  password,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "registration should succeed: "+body)

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		User    struct {
			ID     string  `json:"id"`
			ShopID *string `json:"shop_id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotEmpty(t, resp.Access)

	session := &Session{
		Access:  resp.Access,
		Refresh: resp.Refresh,
		UserID:  resp.User.ID,
	}
	if resp.User.ShopID != nil {
		session.ShopID = *resp.User.ShopID
	}
	return session
}

// RegisterUniqueShop registers with a timestamped email so parallel
// tests never collide.
func RegisterUniqueShop(t *testing.T, ts *TestServer) *Session {
	t.Helper()
	email := fmt.Sprintf("owner_%d@test.com", time.Now().UnixNano())
	return RegisterShop(t, ts, "Test Kirana", email, "password123")
}

// SeedFreePlan inserts the trial plan the start-trial endpoint resolves.
func SeedFreePlan(t *testing.T, db *gorm.DB) *models.SubscriptionPlan {
	t.Helper()

	plan := &models.SubscriptionPlan{
		Name:         "Free Trial",
		PlanType:     models.PlanTypeFree,
		Duration:     models.PlanDurationMonthly,
		Price:        0,
		DurationDays: 14,
		IsActive:     true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// SeedPaidPlan inserts a purchasable plan.
func SeedPaidPlan(t *testing.T, db *gorm.DB) *models.SubscriptionPlan {
	t.Helper()

	plan := &models.SubscriptionPlan{
		Name:         "Basic Monthly",
		PlanType:     models.PlanTypeBasic,
		Duration:     models.PlanDurationMonthly,
		Price:        299,
		DurationDays: 30,
		IsActive:     true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// GrantSubscription marks the user as admin-allowed so paywalled routes
// open without going through trial or payment.
func GrantSubscription(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()

	sub := &models.UserSubscription{
		UserID:         userID,
		AllowedByAdmin: true,
		Active:         true,
	}
	require.NoError(t, db.Create(sub).Error)
}
