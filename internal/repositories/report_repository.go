package repositories

import (
	"time"

	"gorm.io/gorm"
)

type SalesSummary struct {
	InvoiceCount  int64   `json:"invoice_count"`
	Revenue       float64 `json:"revenue"`
	TaxCollected  float64 `json:"tax_collected"`
	DiscountGiven float64 `json:"discount_given"`
}

type DailySales struct {
	Day      time.Time `json:"day"`
	Invoices int64     `json:"invoices"`
	Revenue  float64   `json:"revenue"`
}

type ProductSales struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	QtySold     float64 `json:"qty_sold"`
	Revenue     float64 `json:"revenue"`
}

type PaymentModeTotal struct {
	PaymentMode string  `json:"payment_mode"`
	Invoices    int64   `json:"invoices"`
	Revenue     float64 `json:"revenue"`
}

type ReportRepository interface {
	GetSalesSummary(db *gorm.DB, shopID string, from, to time.Time) (*SalesSummary, error)
	GetDailySales(db *gorm.DB, shopID string, from, to time.Time) ([]DailySales, error)
	GetTopProducts(db *gorm.DB, shopID string, from, to time.Time, limit int) ([]ProductSales, error)
	GetPaymentModeTotals(db *gorm.DB, shopID string, from, to time.Time) ([]PaymentModeTotal, error)
}

type ReportRepositoryImpl struct{}

func NewReportRepository() ReportRepository {
	return &ReportRepositoryImpl{}
}

func (r *ReportRepositoryImpl) GetSalesSummary(db *gorm.DB, shopID string, from, to time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := db.Raw(`
		SELECT
			COUNT(*) AS invoice_count,
			COALESCE(SUM(grand_total), 0) AS revenue,
			COALESCE(SUM(tax_total), 0) AS tax_collected,
			COALESCE(SUM(discount_total), 0) AS discount_given
		FROM invoices
		WHERE shop_id = ? AND invoice_date >= ? AND invoice_date < ?`,
		shopID, from, to).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *ReportRepositoryImpl) GetDailySales(db *gorm.DB, shopID string, from, to time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := db.Raw(`
		SELECT
			DATE_TRUNC('day', invoice_date) AS day,
			COUNT(*) AS invoices,
			COALESCE(SUM(grand_total), 0) AS revenue
		FROM invoices
		WHERE shop_id = ? AND invoice_date >= ? AND invoice_date < ?
		GROUP BY 1
		ORDER BY 1`,
		shopID, from, to).Scan(&rows).Error
	return rows, err
}

func (r *ReportRepositoryImpl) GetTopProducts(db *gorm.DB, shopID string, from, to time.Time, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ProductSales
	err := db.Raw(`
		SELECT
			ii.product_id,
			p.name AS product_name,
			COALESCE(SUM(ii.qty), 0) AS qty_sold,
			COALESCE(SUM(ii.line_total), 0) AS revenue
		FROM invoice_items ii
		INNER JOIN invoices i ON i.id = ii.invoice_id
		INNER JOIN products p ON p.id = ii.product_id
		WHERE i.shop_id = ? AND i.invoice_date >= ? AND i.invoice_date < ?
		GROUP BY ii.product_id, p.name
		ORDER BY revenue DESC
		LIMIT ?`,
		shopID, from, to, limit).Scan(&rows).Error
	return rows, err
}

func (r *ReportRepositoryImpl) GetPaymentModeTotals(db *gorm.DB, shopID string, from, to time.Time) ([]PaymentModeTotal, error) {
	var rows []PaymentModeTotal
	err := db.Raw(`
		SELECT
			payment_mode,
			COUNT(*) AS invoices,
			COALESCE(SUM(grand_total), 0) AS revenue
		FROM invoices
		WHERE shop_id = ? AND invoice_date >= ? AND invoice_date < ?
		GROUP BY payment_mode
		ORDER BY revenue DESC`,
		shopID, from, to).Scan(&rows).Error
	return rows, err
}
