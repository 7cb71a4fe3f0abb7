package handler

import (
	"errors"
	"net/http"
	"time"

	"pos-service/internal/service"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Register handles pharmacy tenant registration
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	// Parse request
	var req service.RegisterPharmacyInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.PharmacyName == "" || req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		log.Error("Invalid registration data",
			zap.String("pharmacy", req.PharmacyName),
			zap.String("email", req.Email))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pharmacyName, email, password, firstName and lastName are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	resp, err := svc.Auth.RegisterPharmacy(req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			log.Error("Registration conflict", zap.String("email", req.Email))
			prometheus.RecordAuthError("email_already_exists")
			return c.JSON(http.StatusConflict, echo.Map{"error": "a pharmacy or user with this email already exists"})
		}
		log.Error("Failed to register pharmacy", zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("Pharmacy registered",
		zap.String("pharmacy", req.PharmacyName),
		zap.Uint("tenant_id", resp.TenantID))

	return c.JSON(http.StatusCreated, resp)
}

// Login handles user authentication
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := svc.Auth.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Error("Authentication query failed", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	// A nil user covers unknown email, wrong password and inactive accounts
	// alike; the response never says which.
	if user == nil {
		log.Warn("Login rejected", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := svc.Auth.GenerateAuthResponse(user)
	if err != nil {
		log.Error("Failed to generate auth response", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID))

	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a valid refresh token for a new access token
func Refresh(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RefreshCounter.Inc()

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse refresh request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	accessToken, err := svc.Auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			log.Warn("Refresh token rejected")
			prometheus.RecordAuthError("invalid_refresh_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		log.Error("Failed to refresh token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"accessToken": accessToken})
}

// SwitchStore changes the authenticated user's current store
func SwitchStore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.StoreSwitchCounter.Inc()

	claims, ok := c.Get("claims").(*jwtutil.SessionClaims)
	if !ok {
		log.Error("Failed to get session claims from context")
		prometheus.RecordAuthError("missing_claims")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		StoreID uint `json:"storeId"`
	}

	if err := c.Bind(&req); err != nil || req.StoreID == 0 {
		log.Error("Invalid store switch request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "storeId is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := svc.StoreAccess.SwitchStore(claims.UserID, req.StoreID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			log.Warn("Store switch denied",
				zap.Uint("user_id", claims.UserID),
				zap.Uint("store_id", req.StoreID))
			prometheus.RecordAuthError("store_access_denied")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "store not found or access denied"})
		}
		log.Error("Failed to switch store", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to switch store"})
	}

	log.Info("Store switched",
		zap.Uint("user_id", claims.UserID),
		zap.Uint("store_id", req.StoreID))

	return c.JSON(http.StatusOK, user)
}

// GetUserStores lists the stores the authenticated user has access to
func GetUserStores(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := c.Get("claims").(*jwtutil.SessionClaims)
	if !ok {
		log.Error("Failed to get session claims from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	stores, err := svc.StoreAccess.GetUserStores(claims.UserID)
	if err != nil {
		log.Error("Failed to retrieve user stores", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve stores"})
	}

	return c.JSON(http.StatusOK, stores)
}

// GetProfile returns the authenticated user's profile
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := c.Get("claims").(*jwtutil.SessionClaims)
	if !ok {
		log.Error("Failed to get session claims from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := svc.Auth.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		log.Error("Failed to load profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}

	return c.JSON(http.StatusOK, user)
}
