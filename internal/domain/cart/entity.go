// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// Line represents one product-and-quantity entry in a shopping cart.
// At most one line exists per product ID; absence is represented by
// removal, never by a zero quantity.
type Line struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
}

// WishlistEntry is a presence-only saved product. Same shape as a cart
// line minus the quantity; duplicates are forbidden by product ID.
type WishlistEntry struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
}
