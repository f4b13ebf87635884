package handlers

import (
	"net/http"

	"dukaan_backend/internal/config"
	"dukaan_backend/internal/middleware"
	"dukaan_backend/internal/services"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// refreshCookieName carries the refresh token for browser clients.
// API clients send it in the request body instead; both work.
const refreshCookieName = "refresh_token"

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/token/", h.Login)
	rg.POST("/register-shop/", h.RegisterShop)
	rg.GET("/me/", middleware.AuthMiddleware(), h.Me)

	auth := rg.Group("/auth")
	{
		auth.POST("/refresh/", h.Refresh)
		auth.POST("/logout/", h.Logout)
		auth.POST("/forgot-password/", h.ForgotPassword)
		auth.POST("/reset-password/", h.ResetPassword)
	}
}

func (h *AuthHandler) RegisterShop(c *gin.Context) {
	var req dto.RegisterShopRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, pair, err := h.authService.RegisterShop(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	pair, _, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	c.JSON(http.StatusOK, pair)
}

// Refresh accepts the token from the JSON body or, failing that, the
// HttpOnly cookie. The rotated token is returned both ways.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	// Body is optional for cookie-based clients.
	_ = c.ShouldBind(&req)

	token := req.Refresh
	if token == "" {
		token, _ = c.Cookie(refreshCookieName)
	}
	if token == "" {
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	db := h.GetDB(c)

	pair, err := h.authService.Refresh(db, token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	_ = c.ShouldBind(&req)

	token := req.Refresh
	if token == "" {
		token, _ = c.Cookie(refreshCookieName)
	}

	db := h.GetDB(c)

	if token != "" {
		if err := h.authService.Logout(db, token); err != nil {
			h.HandleServiceError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out."})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ForgotPassword(db, req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"detail": "If the email exists, a reset link has been sent."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.authService.ResetPassword(db, req.Token, req.Password); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Password has been reset."})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.GetMe(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if token == "" {
		return
	}
	maxAge := config.GetConfig().JWT.RefreshTTLDays * 24 * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, maxAge, "/api/auth", "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/auth", "", false, true)
}
