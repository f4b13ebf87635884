package models

type Product struct {
	BaseModel
	ShopID            string      `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name              string      `gorm:"not null" json:"name"`
	SKU               string      `json:"sku"`
	Unit              ProductUnit `gorm:"type:varchar(8);default:'pcs'" json:"unit"`
	Price             float64     `gorm:"not null" json:"price"`
	CostPrice         float64     `gorm:"default:0" json:"cost_price"`
	TaxRate           float64     `gorm:"default:0" json:"tax_rate"` // GST %
	Quantity          float64     `gorm:"default:0" json:"quantity"`
	LowStockThreshold float64     `gorm:"default:0" json:"low_stock_threshold"`
	IsActive          bool        `gorm:"default:true" json:"is_active"`
}

// IsLowStock reports whether the product is at or below its threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}
