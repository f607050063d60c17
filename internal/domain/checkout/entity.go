// internal/domain/checkout/entity.go
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// ErrEmptyCart rejects draft building and submission for empty carts
var ErrEmptyCart = errors.New("checkout: cart is empty")

// ErrNoPendingPayment is returned when a payment callback arrives for a
// session with no submitted draft.
var ErrNoPendingPayment = errors.New("checkout: no pending payment for session")

// ValidationError lists the shipping form fields that failed validation
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("incomplete shipping information: %s", strings.Join(e.Fields, ", "))
}

// ShippingForm is the client-supplied destination and delivery choice.
// All five fields are required before a draft may be transmitted.
type ShippingForm struct {
	Address string `json:"address" validate:"required"`
	// Region is what the storefront form calls the city field; it is
	// transmitted as the order's city.
	Region         string `json:"region" validate:"required"`
	PostalCode     string `json:"postal_code" validate:"required"`
	Country        string `json:"country" validate:"required"`
	ShippingMethod string `json:"shipping_method" validate:"required,oneof=Standard Express"`
}

// State is the payment completion state of a checkout session
type State string

const (
	// StatePending: draft submitted, hosted payment flow open.
	StatePending State = "pending"
	// StateVerifying: provider callback received, token forwarded for
	// server-side verification.
	StateVerifying State = "verifying"
	// StateConfirmed: verification succeeded; the order is authoritative.
	StateConfirmed State = "confirmed"
	// StateFailed: verification or the provider reported failure. The
	// session returns to pending so the user can retry from the same cart.
	StateFailed State = "failed"
)

// Draft is the client-assembled, not-yet-authoritative order payload
type Draft struct {
	Items           []upstream.DraftItem     `json:"items"`
	ShippingAddress upstream.ShippingAddress `json:"shipping_address"`
	ShippingMethod  string                   `json:"shipping_method"`
	Pricing         pricing.PricedCart       `json:"pricing"`
	// Amount is the rounded total transmitted to the order-creation
	// endpoint and the payment provider.
	Amount int64 `json:"amount"`
}

// PaymentSession is the persisted per-session checkout state
type PaymentSession struct {
	SessionID   string    `json:"session_id"`
	OrderID     string    `json:"order_id"`
	Amount      int64     `json:"amount"`
	State       State     `json:"state"`
	LastFailure string    `json:"last_failure,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaymentInitiation seeds the third-party hosted payment flow
type PaymentInitiation struct {
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	RazorpayKeyID string `json:"razorpay_key_id"`
}

// PaymentCallback is the provider's confirmation token triple. It is
// never trusted client-side; verification happens upstream.
type PaymentCallback struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}
