// internal/upstream/types.go
package upstream

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-gateway/internal/domain/order"
)

// Every upstream response carries an explicit success flag. Responses
// are decoded into these tagged shapes at the boundary so the rest of
// the gateway never branches on loose maps.

// CouponStatusRequest asks the commerce API to check a coupon code
type CouponStatusRequest struct {
	Coupon string `json:"coupon"`
}

// CouponPayload is the coupon detail returned for a recognized code
type CouponPayload struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Expiry   time.Time       `json:"expiry"`
}

// CouponStatusResponse is the coupon check result
type CouponStatusResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Coupon  CouponPayload `json:"coupon"`
}

// DraftItem is one product line of an order-creation request
type DraftItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// ShippingAddress is the destination block of an order-creation request
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateOrderRequest is the outbound order draft
type CreateOrderRequest struct {
	Products        []DraftItem     `json:"products"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	Amount          int64           `json:"amount"`
}

// CreateOrderResponse returns the pending order identifier
type CreateOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	OrderID string `json:"orderId"`
}

// VerifyPaymentRequest forwards the payment provider's callback token
// triple for server-side verification.
type VerifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpayPaymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId"`
	RazorpaySignature string `json:"razorpaySignature"`
}

// VerifyPaymentResponse carries the authoritative order on success
type VerifyPaymentResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Order   *order.Order `json:"order,omitempty"`
}

// TrackOrderResponse wraps a tracked order
type TrackOrderResponse struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order,omitempty"`
}

// Product is one catalog listing entry
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	InStock     bool            `json:"inStock"`
}

// ProductListResponse wraps a product listing
type ProductListResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
}
