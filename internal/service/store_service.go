package service

import (
	"errors"

	"pos-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreService manages a tenant's store records.
type StoreService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(db *gorm.DB, log *zap.Logger) *StoreService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreService{db: db, log: log}
}

// CreateStoreInput carries a new store request
type CreateStoreInput struct {
	TenantID    uint
	Name        string
	Address     string
	PhoneNumber string
	Email       string
}

// CreateStore creates a store under the tenant. Store names are unique within
// a tenant.
func (s *StoreService) CreateStore(input CreateStoreInput) (*model.Store, error) {
	var existing model.Store
	result := s.db.Where("tenant_id = ? AND name = ?", input.TenantID, input.Name).First(&existing)
	if result.Error == nil {
		return nil, ErrConflict
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	store := model.Store{
		Name:        input.Name,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		TenantID:    input.TenantID,
		IsActive:    true,
	}
	if err := s.db.Create(&store).Error; err != nil {
		return nil, err
	}

	s.log.Info("Store created",
		zap.Uint("store_id", store.ID),
		zap.Uint("tenant_id", store.TenantID),
		zap.String("name", store.Name))
	return &store, nil
}

// ListStores returns all active stores of the tenant.
func (s *StoreService) ListStores(tenantID uint) ([]model.Store, error) {
	var stores []model.Store
	result := s.db.Where("tenant_id = ?", tenantID).Order("name ASC").Find(&stores)
	if result.Error != nil {
		return nil, result.Error
	}
	return stores, nil
}

// GetStore returns one store within the tenant.
func (s *StoreService) GetStore(tenantID, storeID uint) (*model.Store, error) {
	var store model.Store
	result := s.db.Where("id = ? AND tenant_id = ?", storeID, tenantID).First(&store)
	if result.Error != nil {
		return nil, ErrNotFound
	}
	return &store, nil
}

// UpdateStore applies partial updates to a store within the tenant.
func (s *StoreService) UpdateStore(tenantID, storeID uint, updates map[string]interface{}) (*model.Store, error) {
	result := s.db.Model(&model.Store{}).
		Where("id = ? AND tenant_id = ?", storeID, tenantID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetStore(tenantID, storeID)
}
