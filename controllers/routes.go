package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/middleware"
)

// RegisterRoutes mounts the customer and admin API under v1. authenticate
// validates the caller; the real server passes middleware.EnsureValidToken.
func RegisterRoutes(v1 *gin.RouterGroup, authenticate gin.HandlerFunc) {
	// Local document store downloads
	v1.GET("/uploads/:filename", GetUploadedDocument)

	authed := v1.Group("", authenticate)
	authed.POST("/users", CreateUser)

	profile := authed.Group("", middleware.LoadUser())
	{
		profile.GET("/users/me", GetMyProfile)
		profile.PUT("/users/me", UpdateMyProfile)

		profile.POST("/orders", CreateOrder)
		profile.GET("/orders", ListMyOrders)
		profile.GET("/orders/:id", GetOrder)
		profile.PUT("/orders/:id/cancel", CancelOrder)
		profile.POST("/orders/:id/messages", SendMessage)
		profile.GET("/orders/:id/messages", ListMessages)
		profile.GET("/orders/:id/documents/:documentType", GetOrderDocument)

		profile.GET("/notifications", ListNotifications)
		profile.PUT("/notifications/read-all", MarkAllNotificationsRead)
		profile.PUT("/notifications/:id/read", MarkNotificationRead)
	}

	admin := profile.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/orders", AdminListOrders)
		admin.GET("/orders/:id", GetOrder)
		admin.PUT("/orders/:id/status", UpdateOrderStatus)
		admin.PUT("/orders/:id/approve", ApproveOrder)
		admin.PUT("/orders/:id/reject", RejectOrder)
		admin.POST("/orders/:id/messages", SendMessage)
		admin.GET("/orders/:id/documents/:documentType", GetOrderDocument)
		admin.POST("/orders/:id/documents/:documentType", UploadOrderDocument)
		admin.GET("/customers", ListCustomers)
	}
}
