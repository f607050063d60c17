// internal/domain/pricing/pricing.go
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
)

// Coupon is the discount input to pricing: a validated code and its
// percentage. Callers pass nil when no coupon is applied.
type Coupon struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// PricedCart is the derived monetary breakdown of a cart. It is a pure
// function of the lines and coupon and is never persisted; caching it
// would risk staleness relative to cart edits.
type PricedCart struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Engine derives cart totals from configured constants
type Engine struct {
	freeShippingThreshold decimal.Decimal
	shippingFee           decimal.Decimal
	taxRate               decimal.Decimal
}

// NewEngine creates a pricing engine from configuration
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{
		freeShippingThreshold: cfg.FreeShippingThreshold,
		shippingFee:           cfg.ShippingFee,
		taxRate:               cfg.TaxRate,
	}
}

// Price derives the monetary breakdown for the given lines and optional
// coupon. Shipping is free once the subtotal reaches the threshold; an
// empty cart still carries the flat fee.
func (e *Engine) Price(lines []cart.Line, coupon *Coupon) PricedCart {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	shippingFee := e.shippingFee
	if subtotal.GreaterThanOrEqual(e.freeShippingThreshold) {
		shippingFee = decimal.Zero
	}

	taxAmount := subtotal.Mul(e.taxRate)

	discountAmount := decimal.Zero
	if coupon != nil {
		discountAmount = subtotal.Mul(coupon.DiscountPercent).Div(decimal.NewFromInt(100))
	}

	return PricedCart{
		Subtotal:       subtotal,
		ShippingFee:    shippingFee,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          subtotal.Add(shippingFee).Add(taxAmount).Sub(discountAmount),
	}
}
