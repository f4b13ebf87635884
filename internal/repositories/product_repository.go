package repositories

import (
	"errors"
	"time"

	"dukaan_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUAlreadyUsed  = errors.New("sku already used in this shop")
)

type ProductFilter struct {
	Search       string `form:"search"`
	LowStockOnly bool   `form:"low_stock"`
	ActiveOnly   bool   `form:"active"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type ProductRepository interface {
	Create(db *gorm.DB, product *models.Product) error
	FindByID(db *gorm.DB, shopID, id string) (*models.Product, error)
	FindByShop(db *gorm.DB, shopID string, filter ProductFilter) ([]models.Product, int64, error)
	FindAllByShop(db *gorm.DB, shopID string) ([]models.Product, error)
	Update(db *gorm.DB, product *models.Product) error

	// Delete deactivates the product instead of removing the row, so
	// old invoice lines keep their product reference.
	Delete(db *gorm.DB, shopID, id string) error

	// DecrementStock subtracts qty and returns the resulting quantity,
	// which may be negative for oversold items.
	DecrementStock(db *gorm.DB, shopID, id string, qty float64) (float64, error)
	FindLowStock(db *gorm.DB, shopID string) ([]models.Product, error)
}

type ProductRepositoryImpl struct{}

func NewProductRepository() ProductRepository {
	return &ProductRepositoryImpl{}
}

func (r *ProductRepositoryImpl) Create(db *gorm.DB, product *models.Product) error {
	if product.SKU != "" {
		var existing models.Product
		err := db.Where("shop_id = ? AND sku = ?", product.ShopID, product.SKU).First(&existing).Error
		if err == nil {
			return ErrSKUAlreadyUsed
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return db.Create(product).Error
}

func (r *ProductRepositoryImpl) FindByID(db *gorm.DB, shopID, id string) (*models.Product, error) {
	var product models.Product
	err := db.Where("shop_id = ?", shopID).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) FindByShop(db *gorm.DB, shopID string, filter ProductFilter) ([]models.Product, int64, error) {
	query := db.Model(&models.Product{}).Where("shop_id = ?", shopID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.LowStockOnly {
		query = query.Where("quantity <= low_stock_threshold")
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
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

	var products []models.Product
	err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *ProductRepositoryImpl) FindAllByShop(db *gorm.DB, shopID string) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("shop_id = ?", shopID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepositoryImpl) Update(db *gorm.DB, product *models.Product) error {
	result := db.Model(product).Updates(map[string]interface{}{
		"name":                product.Name,
		"sku":                 product.SKU,
		"unit":                product.Unit,
		"price":               product.Price,
		"cost_price":          product.CostPrice,
		"tax_rate":            product.TaxRate,
		"quantity":            product.Quantity,
		"low_stock_threshold": product.LowStockThreshold,
		"is_active":           product.IsActive,
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryImpl) Delete(db *gorm.DB, shopID, id string) error {
	result := db.Model(&models.Product{}).
		Where("id = ? AND shop_id = ?", id, shopID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryImpl) DecrementStock(db *gorm.DB, shopID, id string, qty float64) (float64, error) {
	var remaining float64
	result := db.Raw(`
		UPDATE products
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE id = ? AND shop_id = ?
		RETURNING quantity`, qty, id, shopID).Scan(&remaining)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrProductNotFound
	}
	return remaining, nil
}

func (r *ProductRepositoryImpl) FindLowStock(db *gorm.DB, shopID string) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("shop_id = ? AND quantity <= low_stock_threshold AND is_active = ?", shopID, true).
		Order("quantity ASC").Find(&products).Error
	return products, err
}
