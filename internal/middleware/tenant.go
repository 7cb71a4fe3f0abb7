package middleware

import (
	"net/http"
	"strconv"

	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantContextMiddleware derives the tenant and store identifiers every
// downstream query scopes on. Claims take precedence; the x-tenant-id and
// x-store-id headers (or storeId query param) are fallbacks for callers
// without store claims. Runs after AuthMiddleware.
func TenantContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		var tenantID, storeID uint

		if claims, ok := c.Get("claims").(*jwtutil.SessionClaims); ok {
			tenantID = claims.TenantID
			storeID = claims.StoreID
		}

		if tenantID == 0 {
			if header := c.Request().Header.Get("x-tenant-id"); header != "" {
				if parsed, err := strconv.ParseUint(header, 10, 32); err == nil {
					tenantID = uint(parsed)
				}
			}
		}

		if storeID == 0 {
			header := c.Request().Header.Get("x-store-id")
			if header == "" {
				header = c.QueryParam("storeId")
			}
			if header != "" {
				if parsed, err := strconv.ParseUint(header, 10, 32); err == nil {
					storeID = uint(parsed)
				}
			}
		}

		// An authenticated principal without a resolvable tenant cannot be
		// scoped to any data
		if tenantID == 0 {
			log.Error("Tenant ID could not be resolved for authenticated request")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant ID is required"})
		}

		c.Set("tenant_id", tenantID)
		if storeID != 0 {
			c.Set("store_id", storeID)
		}

		log.Debug("Tenant context resolved",
			zap.Uint("tenant_id", tenantID),
			zap.Uint("store_id", storeID))

		return next(c)
	}
}
