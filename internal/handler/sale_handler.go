package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/service"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateSale records a checkout for the caller's current store
func CreateSale(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}
	staffID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		StoreID       *uint                   `json:"store_id,omitempty"`
		CustomerID    *uint                   `json:"customer_id,omitempty"`
		PaymentMethod string                  `json:"payment_method"`
		Discount      float64                 `json:"discount,omitempty"`
		Tax           float64                 `json:"tax,omitempty"`
		Items         []service.SaleItemInput `json:"items"`
	}

	if err := c.Bind(&req); err != nil || len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
	}

	storeID := req.StoreID
	if storeID == nil {
		storeID = storeFromContext(c)
	}
	if storeID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "store ID is required"})
	}

	defer prometheus.TrackDBOperation("create_sale")(time.Now())
	sale, err := svc.Sales.CreateSale(c.Request().Context(), service.CreateSaleInput{
		TenantID:      tenantID,
		StoreID:       *storeID,
		StaffID:       staffID,
		CustomerID:    req.CustomerID,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Items:         req.Items,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "insufficient stock"})
		default:
			log.Error("Failed to create sale", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record sale"})
		}
	}

	prometheus.SaleCounter.Inc()
	return c.JSON(http.StatusCreated, sale)
}

// ListSales returns a page of the caller tenant's sales
func ListSales(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	sales, total, err := svc.Sales.ListSales(tenantID, storeFromContext(c), page, limit)
	if err != nil {
		log.Error("Failed to list sales", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch sales"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"sales": sales,
		"total": total,
	})
}

// GetSale returns one sale within the caller's tenant
func GetSale(c echo.Context) error {
	log := logger.FromContext(c)

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sale id"})
	}

	sale, err := svc.Sales.GetSale(tenantID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "sale not found"})
		}
		log.Error("Failed to fetch sale", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch sale"})
	}

	return c.JSON(http.StatusOK, sale)
}
