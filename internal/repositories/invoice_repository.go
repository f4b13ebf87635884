package repositories

import (
	"errors"
	"time"

	"dukaan_backend/internal/models"

	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceFilter struct {
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	CustomerID string     `form:"customer"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

type InvoiceRepository interface {
	Create(db *gorm.DB, invoice *models.Invoice) error
	FindByID(db *gorm.DB, shopID, id string) (*models.Invoice, error)
	FindByShop(db *gorm.DB, shopID string, filter InvoiceFilter) ([]models.Invoice, int64, error)
	Delete(db *gorm.DB, shopID, id string) error

	// NextSequence returns the next invoice sequence number for the shop.
	// Callers must hold a transaction so two concurrent finalizations
	// cannot claim the same number.
	NextSequence(db *gorm.DB, shopID string) (int, error)
}

type InvoiceRepositoryImpl struct{}

func NewInvoiceRepository() InvoiceRepository {
	return &InvoiceRepositoryImpl{}
}

func (r *InvoiceRepositoryImpl) Create(db *gorm.DB, invoice *models.Invoice) error {
	return db.Create(invoice).Error
}

func (r *InvoiceRepositoryImpl) FindByID(db *gorm.DB, shopID, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Where("shop_id = ?", shopID).
		Preload("Items").Preload("Items.Product").Preload("Customer").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) FindByShop(db *gorm.DB, shopID string, filter InvoiceFilter) ([]models.Invoice, int64, error) {
	query := db.Model(&models.Invoice{}).Where("shop_id = ?", shopID)

	if filter.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		// Inclusive upper bound on a date-only filter.
		query = query.Where("invoice_date < ?", filter.DateTo.AddDate(0, 0, 1))
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ? OR customer_mobile ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.PageSize
	if limit <= 0 {
		limit = 50
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var invoices []models.Invoice
	err := query.Preload("Items").
		Order("invoice_date DESC").Limit(limit).Offset(offset).Find(&invoices).Error
	return invoices, total, err
}

func (r *InvoiceRepositoryImpl) Delete(db *gorm.DB, shopID, id string) error {
	result := db.Where("shop_id = ?", shopID).Delete(&models.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	// Items are only reachable through their invoice.
	return db.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error
}

func (r *InvoiceRepositoryImpl) NextSequence(db *gorm.DB, shopID string) (int, error) {
	var next int
	err := db.Raw(`
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM '[0-9]+$') AS INTEGER)), 0) + 1
		FROM invoices
		WHERE shop_id = ?`, shopID).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
