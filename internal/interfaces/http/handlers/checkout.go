// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-gateway/internal/domain/checkout"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout and payment callback endpoints
type CheckoutHandler struct {
	checkouts *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
	}
}

// PaymentFailureRequest reports a provider-side failure or cancellation
type PaymentFailureRequest struct {
	Reason string `json:"reason"`
}

// BuildDraft handles POST /checkout/draft - a priced preview of the
// order without submitting it.
func (h *CheckoutHandler) BuildDraft(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	draft, err := h.checkouts.BuildDraft(c.Request.Context(), sessionID, &form)
	if err != nil {
		h.renderDraftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": draft,
	})
}

// Submit handles POST /checkout - transmits the draft and returns the
// hosted payment flow seed.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	initiation, err := h.checkouts.Submit(c.Request.Context(), sessionID, &form)
	if err != nil {
		h.renderDraftError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order created, awaiting payment",
		"data":    initiation,
	})
}

// PaymentCallback handles POST /checkout/payment/callback
func (h *CheckoutHandler) PaymentCallback(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var cb checkout.PaymentCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	confirmed, err := h.checkouts.ConfirmPayment(c.Request.Context(), sessionID, &cb)
	if errors.Is(err, checkout.ErrNoPendingPayment) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No pending payment for this session",
		})
		return
	} else if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Payment could not be verified",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed",
		"data":    confirmed,
	})
}

// PaymentFailure handles POST /checkout/payment/failure
func (h *CheckoutHandler) PaymentFailure(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	err := h.checkouts.ReportFailure(c.Request.Context(), sessionID, req.Reason)
	if errors.Is(err, checkout.ErrNoPendingPayment) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No pending payment for this session",
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record payment failure",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment failure recorded, cart preserved",
	})
}

// Status handles GET /checkout
func (h *CheckoutHandler) Status(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	session, err := h.checkouts.Session(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout status",
		})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No checkout in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": session,
	})
}

func (h *CheckoutHandler) renderDraftError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Incomplete shipping information",
			"fields": verr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to create order",
		})
	}
}
