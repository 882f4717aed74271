package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/models"
	"github.com/vee4group/order-tracker-api/services"
)

// CancelOrderRequest represents the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderSummary is the list view of an order
type OrderSummary struct {
	ID          uint          `json:"id"`
	OrderNumber string        `json:"order_number"`
	Status      models.Status `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// OrderDetail is an order with its conversation and progress tracker
type OrderDetail struct {
	models.Order
	Messages []services.MessageView `json:"messages"`
	Progress models.Progress        `json:"progress"`
}

// CreateOrder handles POST /api/v1/orders - places a new order with its design file (multipart form)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.IsAdmin() {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only customers can place orders")
		return
	}

	input, err := bindOrderForm(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	designFile, err := c.FormFile("designFile")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "Please upload a design file")
		return
	}

	order, err := services.GetOrderService().CreateOrder(c.Request.Context(), user, input, designFile)
	if err != nil {
		respondServiceError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// bindOrderForm reads the specification fields from the multipart form.
// Missing fields are left zero for the service to report together.
func bindOrderForm(c *gin.Context) (services.CreateOrderInput, error) {
	in := services.CreateOrderInput{
		ProductType:            c.PostForm("productType"),
		MetalType:              c.PostForm("metalType"),
		Color:                  c.PostForm("color"),
		AdditionalRequirements: c.PostForm("additionalRequirements"),
	}

	floats := []struct {
		field string
		dst   *float64
	}{
		{"thickness", &in.Thickness},
		{"width", &in.Width},
		{"height", &in.Height},
	}
	for _, f := range floats {
		raw := strings.TrimSpace(c.PostForm(f.field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, &fieldError{field: f.field}
		}
		*f.dst = v
	}

	if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return in, &fieldError{field: "quantity"}
		}
		in.Quantity = q
	}

	return in, nil
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return "Invalid value for " + e.field
}

// ListMyOrders handles GET /api/v1/orders - lists the current customer's orders, newest first
func ListMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := services.GetOrderService().ListCustomerOrders(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			ID:          o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// GetOrder handles GET /api/v1/orders/:id - order details with messages and progress
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	order, err := services.GetOrderService().GetOrder(c.Request.Context(), user, orderID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order")
		return
	}

	messages, err := services.GetMessageService().ListMessages(c.Request.Context(), order.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": OrderDetail{
			Order:    *order,
			Messages: messages,
			Progress: models.ProgressFor(order.Status),
		},
	})
}

// CancelOrder handles PUT /api/v1/orders/:id/cancel - customer cancels before production starts
func CancelOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
			return
		}
	}

	order, err := services.GetOrderService().CancelOrder(c.Request.Context(), user, orderID, req.Reason)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order cancelled successfully",
		"data":    order,
	})
}

// GetOrderDocument handles GET /api/v1/orders/:id/documents/:documentType - returns a download URL
func GetOrderDocument(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	doc, valid := models.ParseDocumentType(c.Param("documentType"))
	if !valid {
		respondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", "Invalid document type")
		return
	}

	url, err := services.GetOrderService().DocumentURL(c.Request.Context(), user, orderID, doc)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"document_type": doc,
			"url":           url,
		},
	})
}
