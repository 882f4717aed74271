package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/services"
)

// UpdateStatusRequest represents the request body for an administrative status change
type UpdateStatusRequest struct {
	Status               string     `json:"status" binding:"required"`
	NotifyCustomer       NotifyFlag `json:"notifyCustomer"`
	Message              string     `json:"message"`
	ExpectedDeliveryDate DateParam  `json:"expectedDeliveryDate"`
}

// DecisionRequest represents the request body for approving or rejecting an order
type DecisionRequest struct {
	NotifyCustomer       NotifyFlag `json:"notifyCustomer"`
	Message              string     `json:"message"`
	ExpectedDeliveryDate DateParam  `json:"expectedDeliveryDate"`
}

// AdminListOrders handles GET /api/v1/admin/orders - all orders with optional filters
func AdminListOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:   c.Query("status"),
		Customer: c.Query("customer"),
	}

	var err error
	if filter.StartDate, err = parseDate(c.Query("startDate")); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid startDate")
		return
	}
	if filter.EndDate, err = parseDate(c.Query("endDate")); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid endDate")
		return
	}

	orders, err := services.GetOrderService().ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// UpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status - sets any status.
// Customers are only notified when notifyCustomer is true.
func UpdateOrderStatus(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := services.GetOrderService().UpdateStatus(c.Request.Context(), admin, orderID, services.TransitionInput{
		Status:           req.Status,
		Message:          req.Message,
		Notify:           req.NotifyCustomer.Or(false),
		ExpectedDelivery: req.ExpectedDeliveryDate.Time,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

// ApproveOrder handles PUT /api/v1/admin/orders/:id/approve
func ApproveOrder(c *gin.Context) {
	decide(c, "approved", (*services.OrderService).ApproveOrder)
}

// RejectOrder handles PUT /api/v1/admin/orders/:id/reject
func RejectOrder(c *gin.Context) {
	decide(c, "rejected", (*services.OrderService).RejectOrder)
}

type decisionFunc func(*services.OrderService, context.Context, models.User, uint, services.TransitionInput) (*models.Order, error)

// decide runs approve or reject. Both notify the customer unless notifyCustomer is false.
func decide(c *gin.Context, verb string, fn decisionFunc) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
			return
		}
	}

	order, err := fn(services.GetOrderService(), c.Request.Context(), admin, orderID, services.TransitionInput{
		Message:          req.Message,
		Notify:           req.NotifyCustomer.Or(true),
		ExpectedDelivery: req.ExpectedDeliveryDate.Time,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order " + verb + " successfully",
		"data":    order,
	})
}

// UploadOrderDocument handles POST /api/v1/admin/orders/:id/documents/:documentType -
// attaches a test report or invoice (multipart field "file")
func UploadOrderDocument(c *gin.Context) {
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	doc, valid := models.ParseDocumentType(c.Param("documentType"))
	if !valid || doc == models.DocumentDesign {
		respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", "Invalid document type")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "Please upload a file")
		return
	}

	notifyCustomer := true
	if raw, present := c.GetPostForm("notifyCustomer"); present {
		if notifyCustomer, err = ParseNotifyFlag(raw); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	order, err := services.GetOrderService().UploadDocument(c.Request.Context(), admin, orderID, doc, file, notifyCustomer)
	if err != nil {
		respondServiceError(c, err, "Failed to upload document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": doc.Label() + " uploaded successfully",
		"data":    order,
	})
}

// ListCustomers handles GET /api/v1/admin/customers - customers with order counts
func ListCustomers(c *gin.Context) {
	customers, err := services.GetOrderService().ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}
