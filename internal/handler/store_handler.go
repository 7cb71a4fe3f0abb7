package handler

import (
	"errors"
	"net/http"

	"pos-service/internal/model"
	"pos-service/internal/service"
	"pos-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func requireManagement(c echo.Context) bool {
	role, ok := c.Get("role").(string)
	return ok && model.UserRole(role).CanAutoProvisionStoreAccess()
}

// CreateStore creates a store under the caller's tenant. Admin and manager
// roles only.
func CreateStore(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := c.Get("tenant_id").(uint)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}
	if !requireManagement(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	var req struct {
		Name        string `json:"name"`
		Address     string `json:"address,omitempty"`
		PhoneNumber string `json:"phone_number,omitempty"`
		Email       string `json:"email,omitempty"`
	}

	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	store, err := svc.Stores.CreateStore(service.CreateStoreInput{
		TenantID:    tenantID,
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a store with this name already exists"})
		}
		log.Error("Failed to create store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create store"})
	}

	return c.JSON(http.StatusCreated, store)
}

// ListStores returns the caller tenant's stores
func ListStores(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := c.Get("tenant_id").(uint)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	stores, err := svc.Stores.ListStores(tenantID)
	if err != nil {
		log.Error("Failed to list stores", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch stores"})
	}

	return c.JSON(http.StatusOK, echo.Map{"stores": stores})
}

// AssignStore grants a user access to a store, optionally as their default.
// Admin and manager roles only.
func AssignStore(c echo.Context) error {
	log := logger.FromContext(c)

	if !requireManagement(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
	}

	var req struct {
		UserID    uint `json:"user_id"`
		StoreID   uint `json:"store_id"`
		IsDefault bool `json:"is_default,omitempty"`
	}

	if err := c.Bind(&req); err != nil || req.UserID == 0 || req.StoreID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and store_id are required"})
	}

	grant, err := svc.StoreAccess.AssignStoreToUser(req.UserID, req.StoreID, req.IsDefault)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "store access denied"})
		}
		log.Error("Failed to assign store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign store"})
	}

	log.Info("Store assigned",
		zap.Uint("user_id", req.UserID),
		zap.Uint("store_id", req.StoreID))
	return c.JSON(http.StatusOK, grant)
}
