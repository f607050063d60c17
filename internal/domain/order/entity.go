// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the server-reported order status. The first five
// values form the ordered delivery progression; Cancelled and Returned
// are terminal exceptions outside it.
type Status string

const (
	StatusNotProcessed   Status = "Not processed"
	StatusProcessing     Status = "Processing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
	StatusReturned       Status = "Returned"
)

// Order is the authoritative server-side order. The gateway never
// mutates one; it only displays what the upstream API returns.
type Order struct {
	ID              string          `json:"id"`
	Products        []Item          `json:"products"`
	ShippingAddress Address         `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	Amount          decimal.Decimal `json:"amount"`
	Status          Status          `json:"status"`
	StatusHistory   []StatusUpdate  `json:"statusHistory,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Item is one purchased product line within an order
type Item struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Address is the shipping destination of an order
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// StatusUpdate is one entry of the server-owned status timeline. The
// gateway renders the list in server order and never reorders or
// deduplicates it.
type StatusUpdate struct {
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	Address     string    `json:"address"`
}
