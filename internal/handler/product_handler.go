package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pos-service/internal/service"
	"pos-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func tenantFromContext(c echo.Context) (uint, bool) {
	tenantID, ok := c.Get("tenant_id").(uint)
	return tenantID, ok
}

func storeFromContext(c echo.Context) *uint {
	if storeID, ok := c.Get("store_id").(uint); ok {
		return &storeID
	}
	return nil
}

// CreateProduct adds a product to the caller tenant's catalog
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	var req struct {
		Name          string  `json:"name"`
		Description   string  `json:"description,omitempty"`
		SKU           string  `json:"sku,omitempty"`
		Barcode       string  `json:"barcode,omitempty"`
		Price         float64 `json:"price"`
		CostPrice     float64 `json:"cost_price,omitempty"`
		CategoryID    *uint   `json:"category_id,omitempty"`
		StoreID       *uint   `json:"store_id,omitempty"`
		Stock         int     `json:"stock,omitempty"`
		LowStockAlert int     `json:"low_stock_alert,omitempty"`
		RequiresRx    bool    `json:"requires_rx,omitempty"`
		Manufacturer  string  `json:"manufacturer,omitempty"`
		GenericName   string  `json:"generic_name,omitempty"`
	}

	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	storeID := req.StoreID
	if storeID == nil {
		storeID = storeFromContext(c)
	}

	product, err := svc.Products.CreateProduct(service.CreateProductInput{
		TenantID:      tenantID,
		StoreID:       storeID,
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		Price:         req.Price,
		CostPrice:     req.CostPrice,
		CategoryID:    req.CategoryID,
		Stock:         req.Stock,
		LowStockAlert: req.LowStockAlert,
		RequiresRx:    req.RequiresRx,
		Manufacturer:  req.Manufacturer,
		GenericName:   req.GenericName,
	})
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a product with this SKU or barcode already exists"})
		}
		log.Error("Failed to create product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}

	return c.JSON(http.StatusCreated, product)
}

// ListProducts returns a page of the caller tenant's products
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	search := c.QueryParam("search")

	products, total, err := svc.Products.ListProducts(tenantID, storeFromContext(c), search, page, limit)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch products"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"products": products,
		"total":    total,
	})
}

// GetProduct returns one product within the caller's tenant
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := svc.Products.GetProduct(tenantID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		log.Error("Failed to fetch product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch product"})
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct applies partial updates to a product
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var updates map[string]interface{}
	if err := c.Bind(&updates); err != nil || len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}
	// ownership and identity fields are never client-settable
	delete(updates, "id")
	delete(updates, "tenant_id")

	product, err := svc.Products.UpdateProduct(tenantID, uint(id), updates)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		if errors.Is(err, service.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a product with this SKU or barcode already exists"})
		}
		log.Error("Failed to update product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product from the catalog
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := svc.Products.DeleteProduct(tenantID, uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		log.Error("Failed to delete product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

// ListLowStockProducts returns products at or below their alert threshold
func ListLowStockProducts(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	products, err := svc.Products.LowStockProducts(tenantID, storeFromContext(c))
	if err != nil {
		log.Error("Failed to list low stock products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch products"})
	}

	return c.JSON(http.StatusOK, echo.Map{"products": products})
}
