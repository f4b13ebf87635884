package services

import (
	"dukaan_backend/internal/models"
	"dukaan_backend/internal/repositories"
	"dukaan_backend/internal/services/dto"
	"dukaan_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ShopService interface {
	GetShop(db *gorm.DB, shopID string) (*models.Shop, error)
	UpdateShop(db *gorm.DB, shopID string, req *dto.UpdateShopRequest) (*models.Shop, error)

	CreateCustomer(db *gorm.DB, shopID string, req *dto.CreateCustomerRequest) (*models.Customer, error)
	GetCustomer(db *gorm.DB, shopID, customerID string) (*models.Customer, error)
	ListCustomers(db *gorm.DB, shopID, search string, page, pageSize int) ([]models.Customer, int64, error)
	UpdateCustomer(db *gorm.DB, shopID, customerID string, req *dto.UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(db *gorm.DB, shopID, customerID string) error
}

type ShopServiceImpl struct {
	shopRepo repositories.ShopRepository
}

func NewShopService(shopRepo repositories.ShopRepository) ShopService {
	return &ShopServiceImpl{shopRepo: shopRepo}
}

func (s *ShopServiceImpl) GetShop(db *gorm.DB, shopID string) (*models.Shop, error) {
	shop, err := s.shopRepo.FindByID(db, shopID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrShopNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return shop, nil
}

func (s *ShopServiceImpl) UpdateShop(db *gorm.DB, shopID string, req *dto.UpdateShopRequest) (*models.Shop, error) {
	shop, err := s.GetShop(db, shopID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.ContactPhone != nil {
		shop.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		shop.ContactEmail = *req.ContactEmail
	}
	if req.Language != nil {
		shop.Language = *req.Language
	}

	if err := s.shopRepo.Update(db, shop); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return shop, nil
}

// CreateCustomer reuses an existing customer with the same mobile, so
// repeat checkouts never duplicate the customer list.
func (s *ShopServiceImpl) CreateCustomer(db *gorm.DB, shopID string, req *dto.CreateCustomerRequest) (*models.Customer, error) {
	existing, err := s.shopRepo.FindCustomerByMobile(db, shopID, req.Mobile)
	if err == nil {
		if existing.Name != req.Name && req.Name != "" {
			existing.Name = req.Name
			if err := s.shopRepo.UpdateCustomer(db, existing); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
		return existing, nil
	}
	if !apperrors.Is(err, repositories.ErrCustomerNotFound) {
		return nil, apperrors.InternalError(err)
	}

	customer := &models.Customer{
		ShopID: shopID,
		Name:   req.Name,
		Mobile: req.Mobile,
	}
	if err := s.shopRepo.CreateCustomer(db, customer); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return customer, nil
}

func (s *ShopServiceImpl) GetCustomer(db *gorm.DB, shopID, customerID string) (*models.Customer, error) {
	customer, err := s.shopRepo.FindCustomerByID(db, shopID, customerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return customer, nil
}

func (s *ShopServiceImpl) ListCustomers(db *gorm.DB, shopID, search string, page, pageSize int) ([]models.Customer, int64, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}

	customers, total, err := s.shopRepo.FindCustomersByShop(db, shopID, search, pageSize, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return customers, total, nil
}

func (s *ShopServiceImpl) UpdateCustomer(db *gorm.DB, shopID, customerID string, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomer(db, shopID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Mobile != nil {
		customer.Mobile = *req.Mobile
	}

	if err := s.shopRepo.UpdateCustomer(db, customer); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return customer, nil
}

func (s *ShopServiceImpl) DeleteCustomer(db *gorm.DB, shopID, customerID string) error {
	if err := s.shopRepo.DeleteCustomer(db, shopID, customerID); err != nil {
		if apperrors.Is(err, repositories.ErrCustomerNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
