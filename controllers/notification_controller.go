package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/services"
)

// ListNotifications handles GET /api/v1/notifications - the current user's notifications, newest first
func ListNotifications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	svc := services.GetNotificationService()
	notifications, err := svc.List(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch notifications")
		return
	}

	unread, err := svc.UnreadCount(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         notifications,
		"unread_count": unread,
	})
}

// MarkNotificationRead handles PUT /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id", "notification")
	if !ok {
		return
	}

	notification, err := services.GetNotificationService().MarkRead(c.Request.Context(), user, id)
	if err != nil {
		respondServiceError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
		"data":    notification,
	})
}

// MarkAllNotificationsRead handles PUT /api/v1/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	changed, err := services.GetNotificationService().MarkAllRead(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "Failed to mark all notifications as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d notifications marked as read", changed),
		"data": gin.H{
			"modified_count": changed,
		},
	})
}
