package services

import (
	"fmt"
	"math"
	"time"

	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type InvoiceService interface {
	Create(db *gorm.DB, shopID, userID string, req *dto.CreateInvoiceRequest) (*models.Invoice, error)
	Get(db *gorm.DB, shopID, invoiceID string) (*models.Invoice, error)
	List(db *gorm.DB, shopID string, filter repositories.InvoiceFilter) ([]models.Invoice, int64, error)
	Delete(db *gorm.DB, shopID, invoiceID string) error
}

type InvoiceServiceImpl struct {
	invoiceRepo repositories.InvoiceRepository
	productRepo repositories.ProductRepository
	shopRepo    repositories.ShopRepository
}

func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	productRepo repositories.ProductRepository,
	shopRepo repositories.ShopRepository,
) InvoiceService {
	return &InvoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
	}
}

// Create finalizes a sale in one transaction: number assignment, line
// totals, stock decrement and the invoice rows all commit or none do.
// Stock may go negative; the line is flagged oversold instead of
// blocking the sale, since the counter queue cannot wait.
func (s *InvoiceServiceImpl) Create(db *gorm.DB, shopID, userID string, req *dto.CreateInvoiceRequest) (*models.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.ErrEmptyInvoice
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	invoice := &models.Invoice{
		ShopID:         shopID,
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		InvoiceDate:    time.Now(),
		PaymentMode:    req.PaymentMode,
		Status:         "PAID",
		CreatedByID:    &userID,
	}
	if invoice.PaymentMode == "" {
		invoice.PaymentMode = "cash"
	}

	if err := s.resolveCustomer(tx, invoice, shopID, req); err != nil {
		return nil, err
	}

	seq, err := s.invoiceRepo.NextSequence(tx, shopID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	invoice.Number = fmt.Sprintf("INV-%04d", seq)

	var subtotal, taxTotal float64
	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(tx, shopID, item.ProductID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProductNotFound) {
				return nil, apperrors.ErrProductNotFound
			}
			return nil, apperrors.InternalError(err)
		}

		lineSubtotal := round2(item.Qty * product.Price)
		lineTax := round2(lineSubtotal * product.TaxRate / 100)

		remaining, err := s.productRepo.DecrementStock(tx, shopID, product.ID, item.Qty)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		invoice.Items = append(invoice.Items, models.InvoiceItem{
			ProductID: product.ID,
			Qty:       item.Qty,
			UnitPrice: product.Price,
			TaxRate:   product.TaxRate,
			LineTotal: round2(lineSubtotal + lineTax),
			Oversold:  remaining < 0,
		})

		subtotal += lineSubtotal
		taxTotal += lineTax
	}

	invoice.Subtotal = round2(subtotal)
	invoice.TaxTotal = round2(taxTotal)
	invoice.DiscountTotal = round2(req.DiscountTotal)
	invoice.GrandTotal = round2(invoice.Subtotal + invoice.TaxTotal - invoice.DiscountTotal)
	if invoice.GrandTotal < 0 {
		invoice.GrandTotal = 0
	}

	if err := s.invoiceRepo.Create(tx, invoice); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return invoice, nil
}

func (s *InvoiceServiceImpl) Get(db *gorm.DB, shopID, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(db, shopID, invoiceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return invoice, nil
}

func (s *InvoiceServiceImpl) List(db *gorm.DB, shopID string, filter repositories.InvoiceFilter) ([]models.Invoice, int64, error) {
	invoices, total, err := s.invoiceRepo.FindByShop(db, shopID, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return invoices, total, nil
}

// Delete removes a voided invoice and restores the stock its lines
// consumed, all in one transaction.
func (s *InvoiceServiceImpl) Delete(db *gorm.DB, shopID, invoiceID string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	invoice, err := s.invoiceRepo.FindByID(tx, shopID, invoiceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return apperrors.ErrInvoiceNotFound
		}
		return apperrors.InternalError(err)
	}

	for _, item := range invoice.Items {
		if _, err := s.productRepo.DecrementStock(tx, shopID, item.ProductID, -item.Qty); err != nil {
			if apperrors.Is(err, repositories.ErrProductNotFound) {
				continue
			}
			return apperrors.InternalError(err)
		}
	}

	if err := s.invoiceRepo.Delete(tx, shopID, invoiceID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// resolveCustomer links the invoice to a customer record. An explicit
// customer id wins; otherwise a mobile number gets or creates one.
// Walk-in sales with neither stay anonymous.
func (s *InvoiceServiceImpl) resolveCustomer(tx *gorm.DB, invoice *models.Invoice, shopID string, req *dto.CreateInvoiceRequest) error {
	if req.CustomerID != "" {
		customer, err := s.shopRepo.FindCustomerByID(tx, shopID, req.CustomerID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrCustomerNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return apperrors.InternalError(err)
		}
		invoice.CustomerID = &customer.ID
		if invoice.CustomerName == "" {
			invoice.CustomerName = customer.Name
		}
		if invoice.CustomerMobile == "" {
			invoice.CustomerMobile = customer.Mobile
		}
		return nil
	}

	if req.CustomerMobile == "" {
		return nil
	}

	customer, err := s.shopRepo.FindCustomerByMobile(tx, shopID, req.CustomerMobile)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return apperrors.InternalError(err)
		}
		customer = &models.Customer{
			ShopID: shopID,
			Name:   req.CustomerName,
			Mobile: req.CustomerMobile,
		}
		if err := s.shopRepo.CreateCustomer(tx, customer); err != nil {
			return apperrors.InternalError(err)
		}
	}
	invoice.CustomerID = &customer.ID
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
