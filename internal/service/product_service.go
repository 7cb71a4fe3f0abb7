package service

import (
	"errors"

	"pos-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductService manages the tenant-scoped product catalog.
type ProductService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{db: db, log: log}
}

// CreateProductInput carries a new product request
type CreateProductInput struct {
	TenantID      uint
	StoreID       *uint
	Name          string
	Description   string
	SKU           string
	Barcode       string
	Price         float64
	CostPrice     float64
	CategoryID    *uint
	Stock         int
	LowStockAlert int
	RequiresRx    bool
	Manufacturer  string
	GenericName   string
}

// CreateProduct adds a product to the tenant catalog. SKU and barcode must be
// unique within the tenant when set.
func (s *ProductService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	if input.SKU != "" {
		if taken, err := s.identifierTaken("sku", input.SKU, input.TenantID, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrConflict
		}
	}
	if input.Barcode != "" {
		if taken, err := s.identifierTaken("barcode", input.Barcode, input.TenantID, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrConflict
		}
	}

	product := model.Product{
		Name:          input.Name,
		Description:   input.Description,
		SKU:           input.SKU,
		Barcode:       input.Barcode,
		Price:         input.Price,
		CostPrice:     input.CostPrice,
		CategoryID:    input.CategoryID,
		TenantID:      input.TenantID,
		StoreID:       input.StoreID,
		Stock:         input.Stock,
		LowStockAlert: input.LowStockAlert,
		RequiresRx:    input.RequiresRx,
		Manufacturer:  input.Manufacturer,
		GenericName:   input.GenericName,
		IsActive:      true,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}

	s.log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("tenant_id", product.TenantID),
		zap.String("name", product.Name))
	return &product, nil
}

// ListProducts returns a page of the tenant's products, optionally narrowed
// to one store and filtered by a name/SKU/barcode search term.
func (s *ProductService) ListProducts(tenantID uint, storeID *uint, search string, page, limit int) ([]model.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&model.Product{}).Where("tenant_id = ?", tenantID)
	if storeID != nil {
		query = query.Where("store_id = ? OR store_id IS NULL", *storeID)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR barcode LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []model.Product
	result := query.Preload("Category").
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return products, total, nil
}

// GetProduct returns one product within the tenant.
func (s *ProductService) GetProduct(tenantID, productID uint) (*model.Product, error) {
	var product model.Product
	result := s.db.Preload("Category").Where("id = ? AND tenant_id = ?", productID, tenantID).First(&product)
	if result.Error != nil {
		return nil, ErrNotFound
	}
	return &product, nil
}

// UpdateProduct applies partial updates to a product within the tenant,
// re-checking identifier uniqueness when SKU or barcode change.
func (s *ProductService) UpdateProduct(tenantID, productID uint, updates map[string]interface{}) (*model.Product, error) {
	if sku, ok := updates["sku"].(string); ok && sku != "" {
		if taken, err := s.identifierTaken("sku", sku, tenantID, productID); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrConflict
		}
	}
	if barcode, ok := updates["barcode"].(string); ok && barcode != "" {
		if taken, err := s.identifierTaken("barcode", barcode, tenantID, productID); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrConflict
		}
	}

	result := s.db.Model(&model.Product{}).
		Where("id = ? AND tenant_id = ?", productID, tenantID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProduct(tenantID, productID)
}

// DeleteProduct soft-deletes a product within the tenant.
func (s *ProductService) DeleteProduct(tenantID, productID uint) error {
	result := s.db.Where("id = ? AND tenant_id = ?", productID, tenantID).Delete(&model.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LowStockProducts returns the tenant's active products at or below their
// alert threshold.
func (s *ProductService) LowStockProducts(tenantID uint, storeID *uint) ([]model.Product, error) {
	query := s.db.Where("tenant_id = ? AND is_active = ? AND low_stock_alert > 0 AND stock <= low_stock_alert", tenantID, true)
	if storeID != nil {
		query = query.Where("store_id = ? OR store_id IS NULL", *storeID)
	}

	var products []model.Product
	if result := query.Find(&products); result.Error != nil {
		return nil, result.Error
	}
	return products, nil
}

func (s *ProductService) identifierTaken(column, value string, tenantID, excludeID uint) (bool, error) {
	query := s.db.Model(&model.Product{}).Where(column+" = ? AND tenant_id = ?", value, tenantID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var existing model.Product
	result := query.First(&existing)
	if result.Error == nil {
		return true, nil
	}
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, result.Error
}
