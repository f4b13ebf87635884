package services

import (
	"time"

	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReportService interface {
	SalesReport(db *gorm.DB, shopID string, query *dto.ReportQuery) (*dto.SalesReport, error)
	ProductReport(db *gorm.DB, shopID string) (*dto.ProductReport, error)
	InvoiceReport(db *gorm.DB, shopID string) (*dto.InvoiceReport, error)
}

type ReportServiceImpl struct {
	reportRepo  repositories.ReportRepository
	productRepo repositories.ProductRepository
}

func NewReportService(reportRepo repositories.ReportRepository, productRepo repositories.ProductRepository) ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		productRepo: productRepo,
	}
}

// SalesReport aggregates invoices over the requested window. The
// default window is the last 30 days; DateTo is inclusive.
func (s *ReportServiceImpl) SalesReport(db *gorm.DB, shopID string, query *dto.ReportQuery) (*dto.SalesReport, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if query.DateFrom != nil {
		from = *query.DateFrom
	}
	if query.DateTo != nil {
		to = query.DateTo.AddDate(0, 0, 1)
	}

	summary, err := s.reportRepo.GetSalesSummary(db, shopID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	daily, err := s.reportRepo.GetDailySales(db, shopID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	top, err := s.reportRepo.GetTopProducts(db, shopID, from, to, query.Limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	modes, err := s.reportRepo.GetPaymentModeTotals(db, shopID, from, to)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.SalesReport{
		From:         from,
		To:           to,
		Summary:      *summary,
		Daily:        daily,
		TopProducts:  top,
		PaymentModes: modes,
	}, nil
}

// ProductReport is the full stock snapshot used by the inventory
// printout.
func (s *ReportServiceImpl) ProductReport(db *gorm.DB, shopID string) (*dto.ProductReport, error) {
	products, err := s.productRepo.FindAllByShop(db, shopID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	report := &dto.ProductReport{
		Products:      make([]dto.ProductReportRow, 0, len(products)),
		TotalProducts: len(products),
	}
	for _, p := range products {
		low := p.IsLowStock()
		stockValue := round2(p.Quantity * p.CostPrice)
		if low {
			report.LowCount++
		}
		if p.Quantity <= 0 {
			report.OutCount++
		}
		report.TotalStockValue += stockValue
		report.Products = append(report.Products, dto.ProductReportRow{
			ID:                p.ID,
			Name:              p.Name,
			SKU:               p.SKU,
			Unit:              string(p.Unit),
			Price:             p.Price,
			Quantity:          p.Quantity,
			LowStockThreshold: p.LowStockThreshold,
			LowStock:          low,
			StockValue:        stockValue,
		})
	}
	report.TotalStockValue = round2(report.TotalStockValue)
	return report, nil
}

// InvoiceReport aggregates today's and the current month's sales.
func (s *ReportServiceImpl) InvoiceReport(db *gorm.DB, shopID string) (*dto.InvoiceReport, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := s.reportRepo.GetSalesSummary(db, shopID, dayStart, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	month, err := s.reportRepo.GetSalesSummary(db, shopID, monthStart, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.InvoiceReport{Today: *today, Month: *month}, nil
}
