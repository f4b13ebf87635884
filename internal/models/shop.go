package models

type Shop struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Language     string `gorm:"default:'en'" json:"language"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

type Customer struct {
	BaseModel
	ShopID string `gorm:"type:uuid;not null;index:idx_customer_shop_mobile,unique" json:"shop_id"`
	Name   string `json:"name"`
	Mobile string `gorm:"index:idx_customer_shop_mobile,unique" json:"mobile"`
}
