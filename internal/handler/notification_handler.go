package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pos-service/internal/service"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetNotifications returns the authenticated user's notifications, paginated
func GetNotifications(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := svc.Notifications.GetUserNotifications(userID, page, limit)
	if err != nil {
		log.Error("Failed to list notifications", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch notifications"})
	}

	return c.JSON(http.StatusOK, result)
}

// MarkNotificationRead marks one of the caller's notifications as read
func MarkNotificationRead(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	if err := svc.Notifications.MarkAsRead(uint(id), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		log.Error("Failed to mark notification read", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notification"})
	}

	prometheus.RecordNotificationOperation("mark_read")
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks every unread notification of the caller as read
func MarkAllNotificationsRead(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	if err := svc.Notifications.MarkAllAsRead(userID); err != nil {
		log.Error("Failed to mark notifications read", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update notifications"})
	}

	prometheus.RecordNotificationOperation("mark_all_read")
	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// RegisterFCMToken stores the caller's device push token
func RegisterFCMToken(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Token string `json:"token"`
	}

	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	if err := svc.Notifications.RegisterFCMToken(userID, req.Token); err != nil {
		log.Error("Failed to register FCM token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register token"})
	}

	prometheus.RecordNotificationOperation("register_token")
	return c.JSON(http.StatusOK, echo.Map{"message": "Token registered"})
}
