// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	coupons *coupon.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons *coupon.Service) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
	}
}

// ApplyCouponRequest represents a coupon application
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon handles POST /coupon
func (h *CouponHandler) ApplyCoupon(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	app, err := h.coupons.Apply(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		// Network or service failure; the operation is abandoned and the
		// client may retry the same call.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Error applying coupon",
		})
		return
	}

	if !app.Applicable {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Coupon not applicable",
			"reason": app.Reason,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied",
		"data":    app,
	})
}

// GetCoupon handles GET /coupon
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	app, err := h.coupons.Applied(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve applied coupon",
		})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No coupon applied",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": app,
	})
}

// RemoveCoupon handles DELETE /coupon
func (h *CouponHandler) RemoveCoupon(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	if err := h.coupons.Remove(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed",
	})
}
