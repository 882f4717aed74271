package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vee4group/order-tracker-api/services"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage handles POST /api/v1/orders/:id/messages and POST /api/v1/admin/orders/:id/messages -
// appends a message to the order conversation
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message content is required")
		return
	}

	message, err := services.GetMessageService().PostMessage(c.Request.Context(), user, orderID, req.Content)
	if err != nil {
		respondServiceError(c, err, "Failed to send message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/orders/:id/messages - lists the order conversation, oldest first
func ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}

	// Access check goes through the order; history itself does not need the row
	if _, err := services.GetOrderService().GetOrder(c.Request.Context(), user, orderID); err != nil {
		respondServiceError(c, err, "Failed to fetch order")
		return
	}

	messages, err := services.GetMessageService().ListMessages(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
