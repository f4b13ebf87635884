package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'SHOPKEEPER'" json:"role"`
	ShopID       *string  `gorm:"type:uuid;index" json:"shop_id"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`

	ResetToken    string     `json:"-"`
	ResetTokenExp *time.Time `json:"-"`

	// Relations
	Shop          *Shop             `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Subscription  *UserSubscription `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens []RefreshToken    `gorm:"foreignKey:UserID" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
