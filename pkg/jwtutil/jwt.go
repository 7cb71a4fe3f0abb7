package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"pos-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var cfg *config.JWTConfig

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims represents the claims embedded in both access and refresh
// tokens: subject user, email, role, tenant, and the currently selected store.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID uint   `json:"tenant_id"`
	StoreID  uint   `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

// Initialize configures the package with signing keys and expirations
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

func newClaims(userID uint, email, role string, tenantID, storeID uint, ttl time.Duration) SessionClaims {
	return SessionClaims{
		UserID:   userID,
		Email:    email,
		Role:     role,
		TenantID: tenantID,
		StoreID:  storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

// GenerateAccessToken creates a short-lived access token signed with the
// access secret.
func GenerateAccessToken(userID uint, email, role string, tenantID, storeID uint) (string, error) {
	if cfg == nil {
		return "", errors.New("jwt configuration not provided")
	}

	ttl := time.Duration(cfg.AccessExpirationHours) * time.Hour
	claims := newClaims(userID, email, role, tenantID, storeID, ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSigningKey))
}

// GenerateRefreshToken creates a long-lived refresh token signed with the
// refresh secret. Default lifetime is 30 days.
func GenerateRefreshToken(userID uint, email, role string, tenantID, storeID uint) (string, error) {
	if cfg == nil {
		return "", errors.New("jwt configuration not provided")
	}

	ttl := time.Duration(cfg.RefreshExpirationHours) * time.Hour
	claims := newClaims(userID, email, role, tenantID, storeID, ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.RefreshSigningKey))
}

// ValidateAccessToken validates and parses an access token
func ValidateAccessToken(tokenString string) (*SessionClaims, error) {
	if cfg == nil {
		return nil, errors.New("jwt configuration not provided")
	}
	return validate(tokenString, cfg.AccessSigningKey)
}

// ValidateRefreshToken validates and parses a refresh token
func ValidateRefreshToken(tokenString string) (*SessionClaims, error) {
	if cfg == nil {
		return nil, errors.New("jwt configuration not provided")
	}
	return validate(tokenString, cfg.RefreshSigningKey)
}

func validate(tokenString, signingKey string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signingKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
