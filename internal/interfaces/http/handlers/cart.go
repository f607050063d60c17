// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. Every read reprices the cart from
// current state; totals are never cached.
type CartHandler struct {
	carts   *cart.Store
	coupons *coupon.Service
	pricer  *pricing.Engine
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Store, coupons *coupon.Service, pricer *pricing.Engine) *CartHandler {
	return &CartHandler{
		carts:   carts,
		coupons: coupons,
		pricer:  pricer,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Title     string          `json:"title" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
}

// UpdateCartItemRequest represents a quantity change
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ReplaceCartRequest overwrites the whole collection
type ReplaceCartRequest struct {
	Items []cart.Line `json:"items" binding:"required"`
}

// cartView is the cart plus its derived pricing
type cartView struct {
	Items   []cart.Line         `json:"items"`
	Coupon  *coupon.Application `json:"coupon,omitempty"`
	Pricing pricing.PricedCart  `json:"pricing"`
}

func (h *CartHandler) view(c *gin.Context, sessionID string, lines []cart.Line) (*cartView, error) {
	applied, err := h.coupons.Applied(c.Request.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	var cpn *pricing.Coupon
	if applied != nil && applied.Applicable {
		cpn = &pricing.Coupon{Code: applied.Code, DiscountPercent: applied.DiscountPercent}
	}

	return &cartView{
		Items:   lines,
		Coupon:  applied,
		Pricing: h.pricer.Price(lines, cpn),
	}, nil
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	lines, err := h.carts.Lines(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	view, err := h.view(c, sessionID, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": view,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	lines, err := h.carts.Add(c.Request.Context(), sessionID, cart.Line{
		ProductID: req.ProductID,
		Title:     req.Title,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	view, err := h.view(c, sessionID, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart",
		"data":    view,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)
	productID := c.Param("id")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	lines, err := h.carts.SetQuantity(c.Request.Context(), sessionID, productID, req.Quantity)
	if errors.Is(err, cart.ErrLineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not in cart",
		})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	view, err := h.view(c, sessionID, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"data":    view,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)
	productID := c.Param("id")

	lines, err := h.carts.Remove(c.Request.Context(), sessionID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	view, err := h.view(c, sessionID, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    view,
	})
}

// ReplaceCart handles PUT /cart
func (h *CartHandler) ReplaceCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.carts.ReplaceAll(c.Request.Context(), sessionID, req.Items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to replace cart",
		})
		return
	}

	view, err := h.view(c, sessionID, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to price cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart replaced",
		"data":    view,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, _ := middleware.GetSessionIDFromContext(c)

	if err := h.carts.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}
	if err := h.coupons.Remove(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear applied coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
