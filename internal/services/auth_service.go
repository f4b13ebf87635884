package services

import (
	"fmt"
	"time"

	"dukaan_backend/internal/auth"
	"dukaan_backend/internal/config"
	"dukaan_backend/internal/email"
	"dukaan_backend/internal/logger"
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	RegisterShop(db *gorm.DB, req *dto.RegisterShopRequest) (*dto.UserResponse, *dto.TokenPair, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenPair, *models.User, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.TokenPair, error)
	Logout(db *gorm.DB, refreshToken string) error
	ForgotPassword(db *gorm.DB, emailAddr string) error
	ResetPassword(db *gorm.DB, token, newPassword string) error
	GetMe(db *gorm.DB, userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	shopRepo         repositories.ShopRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	subscriptionRepo repositories.SubscriptionRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	shopRepo repositories.ShopRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		shopRepo:         shopRepo,
		refreshTokenRepo: refreshTokenRepo,
		subscriptionRepo: subscriptionRepo,
		emailProvider:    emailProvider,
	}
}

// RegisterShop creates the shop, its owner account and an empty
// subscription row in one transaction. The owner is logged in
// immediately.
func (s *AuthServiceImpl) RegisterShop(db *gorm.DB, req *dto.RegisterShopRequest) (*dto.UserResponse, *dto.TokenPair, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	shop := &models.Shop{
		Name:         req.ShopName,
		ContactPhone: req.Mobile,
		ContactEmail: req.Email,
		Language:     req.Language,
		IsActive:     true,
	}
	if err := s.shopRepo.Create(tx, shop); err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleShopOwner,
		ShopID:       &shop.ID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, nil, apperrors.InternalError(err)
	}

	// Subscription row exists from day one; trial starts on demand.
	if _, err := s.subscriptionRepo.GetOrCreateByUserID(tx, user.ID); err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	pair, err := s.issueTokens(tx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	user.Shop = shop
	return dto.NewUserResponse(user), pair, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.TokenPair, *models.User, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(db, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh rotates the refresh token: the presented token is consumed
// and a fresh pair is issued. A replayed token fails here, which is
// what ends a stolen session.
func (s *AuthServiceImpl) Refresh(db *gorm.DB, refreshToken string) (*dto.TokenPair, error) {
	token, err := s.refreshTokenRepo.FindByToken(db, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		s.refreshTokenRepo.Delete(db, refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, token.UserID)
	if err != nil || !user.IsActive {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.Delete(db, refreshToken); err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueTokens(db, user)
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.refreshTokenRepo.Delete(db, refreshToken); err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			// Logout is idempotent.
			return nil
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ForgotPassword never reveals whether the address exists.
func (s *AuthServiceImpl) ForgotPassword(db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		return nil
	}

	resetToken := uuid.NewString()
	if err := s.userRepo.SetResetToken(db, user.ID, resetToken, time.Now().Add(1*time.Hour)); err != nil {
		return apperrors.InternalError(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", config.GetConfig().FrontendURL, resetToken)
	go func() {
		if err := s.emailProvider.SendPasswordReset(user.Email, resetURL); err != nil {
			logger.WithError(err).Error("failed to send password reset email", "user_id", user.ID)
		}
	}()

	return nil
}

func (s *AuthServiceImpl) ResetPassword(db *gorm.DB, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	// All sessions end when the password changes.
	s.refreshTokenRepo.DeleteByUserID(db, user.ID)
	return nil
}

func (s *AuthServiceImpl) GetMe(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.TokenPair, error) {
	shopID := ""
	if user.ShopID != nil {
		shopID = *user.ShopID
	}

	access, err := auth.GenerateToken(user.ID, string(user.Role), shopID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := uuid.NewString()
	expires := time.Now().Add(time.Duration(config.GetConfig().JWT.RefreshTTLDays) * 24 * time.Hour)
	if err := s.refreshTokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expires,
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenPair{Access: access, Refresh: refresh}, nil
}
