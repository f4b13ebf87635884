package middleware

import (
	"time"

	"dukaan_backend/internal/logger"
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/pkg/apperrors"
	"dukaan_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubscriptionMiddleware is the paywall. Routes behind it answer 403
// with a detail message whenever the caller's subscription is invalid.
// Auth, payment and plan routes are never placed behind it, otherwise
// an expired user could not pay.
func SubscriptionMiddleware(subRepo repositories.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			// AuthMiddleware rejects unauthenticated requests first.
			c.Next()
			return
		}

		roleVal, _ := c.Get("role")
		if role, ok := roleVal.(string); ok && models.UserRole(role) == models.UserRoleSiteAdmin {
			c.Next()
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(nil))
			c.Abort()
			return
		}

		sub, err := subRepo.GetOrCreateByUserID(db.(*gorm.DB), userID)
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "paywall: subscription lookup failed", err)
			apperrors.HandleError(c, apperrors.InternalError(err))
			c.Abort()
			return
		}

		if !sub.IsValidAt(time.Now()) {
			apperrors.HandleError(c, apperrors.ErrSubscriptionExpired)
			c.Abort()
			return
		}

		c.Next()
	}
}
