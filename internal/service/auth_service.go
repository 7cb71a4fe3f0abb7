package service

import (
	"errors"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService authenticates principals, mints session tokens, and bootstraps
// pharmacy tenants.
type AuthService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(db *gorm.DB, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{db: db, log: log}
}

// RegisterPharmacyInput carries the pharmacy registration request
type RegisterPharmacyInput struct {
	PharmacyName string `json:"pharmacyName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Address      string `json:"address,omitempty"`
}

// AuthResponse is returned from login, registration, and OAuth flows
type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	TenantID     uint        `json:"tenantId"`
}

// Authenticate looks up an active user by email and verifies the password
// against the stored bcrypt hash. Returns (nil, nil) on any credential
// mismatch so callers cannot tell a missing user from a wrong password.
func (s *AuthService) Authenticate(email, password string) (*model.User, error) {
	var user model.User
	result := s.db.Preload("Tenant").Preload("UserStores").Preload("UserStores.Store").
		Where("email = ? AND is_active = ?", email, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		// Non-fatal: the login itself succeeded
		s.log.Warn("Failed to update last login timestamp", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return &user, nil
}

// RegisterPharmacy creates a tenant and its admin user atomically and returns
// a full auth response for the new admin.
func (s *AuthService) RegisterPharmacy(input RegisterPharmacyInput) (*AuthResponse, error) {
	// Reject duplicate tenant or user emails up front
	var count int64
	if err := s.db.Model(&model.Tenant{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	if err := s.db.Model(&model.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tenant := model.Tenant{
			Name:        input.PharmacyName,
			Email:       input.Email,
			PhoneNumber: input.PhoneNumber,
			Address:     input.Address,
			IsActive:    true,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		user = model.User{
			Email:     input.Email,
			Password:  string(hashedPassword),
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Role:      model.RoleAdmin,
			TenantID:  tenant.ID,
			IsActive:  true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Pharmacy registered",
		zap.String("pharmacy", input.PharmacyName),
		zap.Uint("tenant_id", user.TenantID),
		zap.Uint("admin_user_id", user.ID))

	return s.GenerateAuthResponse(&user)
}

// GenerateAuthResponse resolves the user's active store, mints the access and
// refresh token pair, and returns the sanitized auth payload.
func (s *AuthService) GenerateAuthResponse(user *model.User) (*AuthResponse, error) {
	// Load store memberships if the caller did not
	if user.UserStores == nil {
		var loaded model.User
		result := s.db.Preload("UserStores").Preload("UserStores.Store").First(&loaded, user.ID)
		if result.Error != nil {
			return nil, result.Error
		}
		loaded.Tenant = user.Tenant
		user = &loaded
	}

	// Elect a current store when none is set: prefer the default grant,
	// otherwise promote the first grant to default.
	if user.CurrentStoreID == nil && len(user.UserStores) > 0 {
		chosen := user.UserStores[0]
		for _, us := range user.UserStores {
			if us.IsDefault {
				chosen = us
				break
			}
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if !chosen.IsDefault {
				if err := tx.Model(&model.UserStore{}).
					Where("user_id = ? AND store_id = ?", user.ID, chosen.StoreID).
					Update("is_default", true).Error; err != nil {
					return err
				}
			}
			return tx.Model(&model.User{}).Where("id = ?", user.ID).
				Update("current_store_id", chosen.StoreID).Error
		})
		if err != nil {
			return nil, err
		}
		user.CurrentStoreID = &chosen.StoreID
	}

	accessToken, err := jwtutil.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.TenantID, currentStoreID(user))
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwtutil.GenerateRefreshToken(user.ID, user.Email, string(user.Role), user.TenantID, currentStoreID(user))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TenantID:     user.TenantID,
	}, nil
}

// Refresh verifies a refresh token and mints a fresh access token from the
// user's current state. Role and store claims are re-derived, not copied, so
// changes since the refresh token was issued take effect.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := jwtutil.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrUnauthorized
	}

	var user model.User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user)
	if result.Error != nil {
		return "", ErrUnauthorized
	}

	accessToken, err := jwtutil.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.TenantID, currentStoreID(&user))
	if err != nil {
		return "", err
	}

	return accessToken, nil
}

// GetProfile returns the active user with tenant and store grants loaded.
func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	var user model.User
	result := s.db.Preload("Tenant").Preload("UserStores").Preload("UserStores.Store").
		Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, result.Error
	}
	return &user, nil
}

func currentStoreID(u *model.User) uint {
	if u.CurrentStoreID != nil {
		return *u.CurrentStoreID
	}
	return 0
}
