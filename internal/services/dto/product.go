package dto

type CreateProductRequest struct {
	Name              string  `json:"name" validate:"required,min=1"`
	SKU               string  `json:"sku" validate:"omitempty,max=64"`
	Unit              string  `json:"unit" validate:"omitempty,is-product-unit"`
	Price             float64 `json:"price" validate:"required,gt=0"`
	CostPrice         float64 `json:"cost_price" validate:"omitempty,min=0"`
	TaxRate           float64 `json:"tax_rate" validate:"omitempty,min=0,max=100"`
	Quantity          float64 `json:"quantity" validate:"omitempty,min=0"`
	LowStockThreshold float64 `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	SKU               *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	Unit              *string  `json:"unit,omitempty" validate:"omitempty,is-product-unit"`
	Price             *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	CostPrice         *float64 `json:"cost_price,omitempty" validate:"omitempty,min=0"`
	TaxRate           *float64 `json:"tax_rate,omitempty" validate:"omitempty,min=0,max=100"`
	Quantity          *float64 `json:"quantity,omitempty" validate:"omitempty,min=0"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	IsActive          *bool    `json:"is_active,omitempty"`
}
