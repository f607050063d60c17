// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// OrderHandler handles order tracking endpoints
type OrderHandler struct {
	client *upstream.Client
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(client *upstream.Client) *OrderHandler {
	return &OrderHandler{
		client: client,
	}
}

// trackingView pairs the server's order with its progress projection.
// The status history is passed through in server order, untouched.
type trackingView struct {
	Order      *order.Order     `json:"order"`
	Projection order.Projection `json:"projection"`
	Steps      []order.Status   `json:"steps"`
}

// TrackOrder handles GET /orders/:id/track
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	orderID := c.Param("id")

	resp, err := h.client.TrackOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}
	if !resp.Success || resp.Order == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": trackingView{
			Order:      resp.Order,
			Projection: order.Project(resp.Order.Status),
			Steps:      order.Steps(),
		},
	})
}
