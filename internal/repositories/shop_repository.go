package repositories

import (
	"errors"
	"time"

	"dukaan_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrShopNotFound     = errors.New("shop not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

type ShopRepository interface {
	Create(db *gorm.DB, shop *models.Shop) error
	FindByID(db *gorm.DB, id string) (*models.Shop, error)
	Update(db *gorm.DB, shop *models.Shop) error

	// Customer operations, always shop-scoped.
	CreateCustomer(db *gorm.DB, customer *models.Customer) error
	FindCustomerByID(db *gorm.DB, shopID, id string) (*models.Customer, error)
	FindCustomerByMobile(db *gorm.DB, shopID, mobile string) (*models.Customer, error)
	FindCustomersByShop(db *gorm.DB, shopID, search string, limit, offset int) ([]models.Customer, int64, error)
	UpdateCustomer(db *gorm.DB, customer *models.Customer) error
	DeleteCustomer(db *gorm.DB, shopID, id string) error
}

type ShopRepositoryImpl struct{}

func NewShopRepository() ShopRepository {
	return &ShopRepositoryImpl{}
}

func (r *ShopRepositoryImpl) Create(db *gorm.DB, shop *models.Shop) error {
	return db.Create(shop).Error
}

func (r *ShopRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Shop, error) {
	var shop models.Shop
	err := db.First(&shop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (r *ShopRepositoryImpl) Update(db *gorm.DB, shop *models.Shop) error {
	result := db.Model(shop).Updates(map[string]interface{}{
		"name":          shop.Name,
		"address":       shop.Address,
		"contact_phone": shop.ContactPhone,
		"contact_email": shop.ContactEmail,
		"language":      shop.Language,
		"updated_at":    time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepositoryImpl) CreateCustomer(db *gorm.DB, customer *models.Customer) error {
	return db.Create(customer).Error
}

func (r *ShopRepositoryImpl) FindCustomerByID(db *gorm.DB, shopID, id string) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("shop_id = ?", shopID).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *ShopRepositoryImpl) FindCustomerByMobile(db *gorm.DB, shopID, mobile string) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("shop_id = ? AND mobile = ?", shopID, mobile).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *ShopRepositoryImpl) FindCustomersByShop(db *gorm.DB, shopID, search string, limit, offset int) ([]models.Customer, int64, error) {
	query := db.Model(&models.Customer{}).Where("shop_id = ?", shopID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR mobile ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&customers).Error
	return customers, total, err
}

func (r *ShopRepositoryImpl) UpdateCustomer(db *gorm.DB, customer *models.Customer) error {
	result := db.Model(customer).Updates(map[string]interface{}{
		"name":       customer.Name,
		"mobile":     customer.Mobile,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *ShopRepositoryImpl) DeleteCustomer(db *gorm.DB, shopID, id string) error {
	result := db.Where("shop_id = ?", shopID).Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
