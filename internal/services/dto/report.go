package dto

import (
	"time"

	"dukaan_backend/internal/repositories"
)

type ReportQuery struct {
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02" validate:"omitempty"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02" validate:"omitempty"`
	Limit    int        `form:"limit" validate:"omitempty,min=1,max=100"`
}

type SalesReport struct {
	From         time.Time                       `json:"from"`
	To           time.Time                       `json:"to"`
	Summary      repositories.SalesSummary       `json:"summary"`
	Daily        []repositories.DailySales       `json:"daily"`
	TopProducts  []repositories.ProductSales     `json:"top_products"`
	PaymentModes []repositories.PaymentModeTotal `json:"payment_modes"`
}

type ProductReportRow struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Unit              string  `json:"unit"`
	Price             float64 `json:"price"`
	Quantity          float64 `json:"quantity"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	LowStock          bool    `json:"low_stock"`
	StockValue        float64 `json:"stock_value"` // quantity * cost price
}

type ProductReport struct {
	Products        []ProductReportRow `json:"products"`
	TotalProducts   int                `json:"total_products"`
	LowCount        int                `json:"low_count"`
	OutCount        int                `json:"out_count"`
	TotalStockValue float64            `json:"total_stock_value"`
}

// InvoiceReport is the dashboard headline: today's and this month's
// takings.
type InvoiceReport struct {
	Today repositories.SalesSummary `json:"today"`
	Month repositories.SalesSummary `json:"month"`
}
