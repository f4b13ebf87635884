package models

import "time"

type Invoice struct {
	BaseModel
	ShopID         string  `gorm:"type:uuid;not null;index:idx_invoice_shop_number,unique" json:"shop"`
	CustomerID     *string `gorm:"type:uuid" json:"customer"`
	CustomerName   string  `json:"customer_name"`
	CustomerMobile string  `json:"customer_mobile"`

	Number      string    `gorm:"not null;index:idx_invoice_shop_number,unique" json:"number"`
	InvoiceDate time.Time `gorm:"autoCreateTime" json:"invoice_date"`

	Subtotal      float64 `gorm:"default:0" json:"subtotal"`
	TaxTotal      float64 `gorm:"default:0" json:"tax_total"`
	DiscountTotal float64 `gorm:"default:0" json:"discount_total"`
	GrandTotal    float64 `gorm:"default:0" json:"grand_total"`

	PaymentMode string  `gorm:"default:'cash'" json:"payment_mode"`
	Status      string  `gorm:"default:'PAID'" json:"status"`
	CreatedByID *string `gorm:"type:uuid" json:"created_by"`

	// Relations
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer_detail,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

type InvoiceItem struct {
	BaseModel
	InvoiceID string  `gorm:"type:uuid;not null;index" json:"-"`
	ProductID string  `gorm:"type:uuid;not null" json:"product"`
	Qty       float64 `gorm:"not null" json:"qty"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	TaxRate   float64 `gorm:"default:0" json:"tax_rate"`
	LineTotal float64 `gorm:"not null" json:"line_total"`

	// Set when the sale drove stock below zero.
	Oversold bool `gorm:"default:false" json:"oversold"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product_detail,omitempty"`
}
