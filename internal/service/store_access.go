package service

import (
	"errors"

	"pos-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreAccessService enforces which stores a user may operate against and
// self-provisions access for privileged roles.
type StoreAccessService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStoreAccessService creates a new store access service
func NewStoreAccessService(db *gorm.DB, log *zap.Logger) *StoreAccessService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreAccessService{db: db, log: log}
}

// SwitchStore makes storeID the user's current store. Users without an
// existing grant get one auto-provisioned when their role allows it and the
// store belongs to their own tenant. All denial cases surface as
// ErrUnauthorized without distinguishing missing stores from foreign ones.
func (s *StoreAccessService) SwitchStore(userID, storeID uint) (*model.User, error) {
	var user model.User
	if result := s.db.First(&user, userID); result.Error != nil {
		return nil, ErrUnauthorized
	}

	var userStore model.UserStore
	result := s.db.Where("user_id = ? AND store_id = ?", userID, storeID).First(&userStore)
	hasGrant := result.Error == nil
	if !hasGrant && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if !hasGrant {
			// The store must exist within the user's own tenant
			var store model.Store
			result := tx.Where("id = ? AND tenant_id = ?", storeID, user.TenantID).First(&store)
			if result.Error != nil {
				s.log.Warn("Store switch denied: store not found in tenant",
					zap.Uint("user_id", userID),
					zap.Uint("store_id", storeID),
					zap.Uint("tenant_id", user.TenantID))
				return ErrUnauthorized
			}

			if !user.Role.CanAutoProvisionStoreAccess() {
				s.log.Warn("Store switch denied: role cannot self-provision access",
					zap.Uint("user_id", userID),
					zap.Uint("store_id", storeID),
					zap.String("role", string(user.Role)))
				return ErrUnauthorized
			}

			grant := model.UserStore{
				UserID:    userID,
				StoreID:   storeID,
				IsDefault: false,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.User{}).Where("id = ?", userID).
			Update("current_store_id", storeID).Error
	})
	if err != nil {
		return nil, err
	}

	user.CurrentStoreID = &storeID
	s.log.Info("User switched store",
		zap.Uint("user_id", userID),
		zap.Uint("store_id", storeID))
	return &user, nil
}

// AssignStoreToUser grants a user access to a store, optionally as their
// default. Clearing prior defaults and setting the new one happen in a single
// transaction so at most one default grant exists per user at any time.
func (s *StoreAccessService) AssignStoreToUser(userID, storeID uint, isDefault bool) (*model.UserStore, error) {
	var user model.User
	if result := s.db.First(&user, userID); result.Error != nil {
		return nil, ErrUnauthorized
	}

	// The store must belong to the user's tenant
	var store model.Store
	if result := s.db.Where("id = ? AND tenant_id = ?", storeID, user.TenantID).First(&store); result.Error != nil {
		return nil, ErrUnauthorized
	}

	var grant model.UserStore
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := tx.Model(&model.UserStore{}).Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		result := tx.Where("user_id = ? AND store_id = ?", userID, storeID).First(&grant)
		if result.Error == nil {
			grant.IsDefault = isDefault
			return tx.Model(&model.UserStore{}).Where("id = ?", grant.ID).
				Update("is_default", isDefault).Error
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		grant = model.UserStore{
			UserID:    userID,
			StoreID:   storeID,
			IsDefault: isDefault,
		}
		return tx.Create(&grant).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Store assigned to user",
		zap.Uint("user_id", userID),
		zap.Uint("store_id", storeID),
		zap.Bool("is_default", isDefault))
	return &grant, nil
}

// GetUserStores returns all stores the user holds a grant for.
func (s *StoreAccessService) GetUserStores(userID uint) ([]model.Store, error) {
	var grants []model.UserStore
	if result := s.db.Preload("Store").Where("user_id = ?", userID).Find(&grants); result.Error != nil {
		return nil, result.Error
	}

	stores := make([]model.Store, 0, len(grants))
	for _, g := range grants {
		stores = append(stores, g.Store)
	}
	return stores, nil
}
