package integration_test

import (
	"sync"
	"testing"

	"gorm.io/gorm"

	"dukaan_backend/internal/models"
	"dukaan_backend/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer boots the shared server on first use and seeds the
// subscription plans every paywall test depends on. Tests use unique
// emails instead of truncating tables, so they can run in parallel.
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		globalTestServer = helpers.NewTestServer(t)
		seedPlans(t, globalTestServer.DB)
	})
	if globalTestServer == nil {
		// NewTestServer skipped (no DATABASE_URL) inside the Once on a
		// previous test; skip this test too instead of returning nil.
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	return globalTestServer
}

func seedPlans(t *testing.T, db *gorm.DB) {
	var count int64
	db.Model(&models.SubscriptionPlan{}).Count(&count)
	if count > 0 {
		return
	}
	helpers.SeedFreePlan(t, db)
	helpers.SeedPaidPlan(t, db)
}
