package dto

import "dukaan_backend/internal/models"

type RegisterShopRequest struct {
	ShopName string `json:"shop_name" validate:"required,min=2"`
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Mobile   string `json:"mobile" validate:"omitempty,min=7,max=15"`
	Language string `json:"language" validate:"omitempty,max=10"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the login/refresh payload. Refresh is omitted when the
// server delivers it via HttpOnly cookie instead.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"omitempty"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh" validate:"omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	ID     string          `json:"id"`
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
	ShopID *string         `json:"shop_id"`
	Shop   *models.Shop    `json:"shop,omitempty"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		ShopID: user.ShopID,
		Shop:   user.Shop,
	}
}
