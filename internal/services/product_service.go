package services

import (
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProductService interface {
	Create(db *gorm.DB, shopID string, req *dto.CreateProductRequest) (*models.Product, error)
	Get(db *gorm.DB, shopID, productID string) (*models.Product, error)
	List(db *gorm.DB, shopID string, filter repositories.ProductFilter) ([]models.Product, int64, error)
	Update(db *gorm.DB, shopID, productID string, req *dto.UpdateProductRequest) (*models.Product, error)
	Delete(db *gorm.DB, shopID, productID string) error
	LowStock(db *gorm.DB, shopID string) ([]models.Product, error)
}

type ProductServiceImpl struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) ProductService {
	return &ProductServiceImpl{productRepo: productRepo}
}

func (s *ProductServiceImpl) Create(db *gorm.DB, shopID string, req *dto.CreateProductRequest) (*models.Product, error) {
	unit := models.ProductUnit(req.Unit)
	if req.Unit == "" {
		unit = models.ProductUnitPiece
	}

	product := &models.Product{
		ShopID:            shopID,
		Name:              req.Name,
		SKU:               req.SKU,
		Unit:              unit,
		Price:             req.Price,
		CostPrice:         req.CostPrice,
		TaxRate:           req.TaxRate,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          true,
	}
	if err := s.productRepo.Create(db, product); err != nil {
		if apperrors.Is(err, repositories.ErrSKUAlreadyUsed) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Get(db *gorm.DB, shopID, productID string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(db, shopID, productID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProductNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) List(db *gorm.DB, shopID string, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.FindByShop(db, shopID, filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return products, total, nil
}

func (s *ProductServiceImpl) Update(db *gorm.DB, shopID, productID string, req *dto.UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(db, shopID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Unit != nil {
		product.Unit = models.ProductUnit(*req.Unit)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.TaxRate != nil {
		product.TaxRate = *req.TaxRate
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(db, product); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return product, nil
}

func (s *ProductServiceImpl) Delete(db *gorm.DB, shopID, productID string) error {
	if err := s.productRepo.Delete(db, shopID, productID); err != nil {
		if apperrors.Is(err, repositories.ErrProductNotFound) {
			return apperrors.ErrProductNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ProductServiceImpl) LowStock(db *gorm.DB, shopID string) ([]models.Product, error) {
	products, err := s.productRepo.FindLowStock(db, shopID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return products, nil
}
