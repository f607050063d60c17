// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// OrderGateway is the slice of the upstream client checkout needs
type OrderGateway interface {
	CreateOrder(ctx context.Context, req *upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req *upstream.VerifyPaymentRequest) (*upstream.VerifyPaymentResponse, error)
}

// Service assembles order drafts from the session's cart and drives the
// payment completion state machine.
type Service struct {
	carts    *cart.Store
	coupons  *coupon.Service
	pricer   *pricing.Engine
	gateway  OrderGateway
	adapter  storage.Adapter
	payment  config.PaymentConfig
	validate *validator.Validate
	log      *logrus.Logger
}

// NewService creates a checkout service
func NewService(
	carts *cart.Store,
	coupons *coupon.Service,
	pricer *pricing.Engine,
	gateway OrderGateway,
	adapter storage.Adapter,
	payment config.PaymentConfig,
	log *logrus.Logger,
) *Service {
	v := validator.New()
	// Report field names as their JSON tags so validation errors line up
	// with what the client sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		carts:    carts,
		coupons:  coupons,
		pricer:   pricer,
		gateway:  gateway,
		adapter:  adapter,
		payment:  payment,
		validate: v,
		log:      log,
	}
}

func checkoutKey(sessionID string) string {
	return fmt.Sprintf("checkout:%s", sessionID)
}

// BuildDraft validates the shipping form and assembles the session's
// cart into an order draft. The draft is only buildable when all five
// shipping fields are present and the cart is non-empty.
func (s *Service) BuildDraft(ctx context.Context, sessionID string, form *ShippingForm) (*Draft, error) {
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("failed to validate shipping form: %w", err)
	}

	lines, err := s.carts.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	applied, err := s.coupons.Applied(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var cpn *pricing.Coupon
	if applied != nil && applied.Applicable {
		cpn = &pricing.Coupon{Code: applied.Code, DiscountPercent: applied.DiscountPercent}
	}

	priced := s.pricer.Price(lines, cpn)

	items := make([]upstream.DraftItem, len(lines))
	for i, line := range lines {
		items[i] = upstream.DraftItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Image:     line.ImageURL,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
		}
	}

	return &Draft{
		Items: items,
		ShippingAddress: upstream.ShippingAddress{
			Address:    form.Address,
			City:       form.Region,
			PostalCode: form.PostalCode,
			Country:    form.Country,
		},
		ShippingMethod: form.ShippingMethod,
		Pricing:        priced,
		Amount:         priced.Total.Round(0).IntPart(),
	}, nil
}

// Submit builds a draft, transmits it to the order-creation endpoint
// and returns the data needed to open the hosted payment flow. The
// checkout session enters the pending state.
func (s *Service) Submit(ctx context.Context, sessionID string, form *ShippingForm) (*PaymentInitiation, error) {
	draft, err := s.BuildDraft(ctx, sessionID, form)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.CreateOrder(ctx, &upstream.CreateOrderRequest{
		Products:        draft.Items,
		ShippingAddress: draft.ShippingAddress,
		ShippingMethod:  draft.ShippingMethod,
		Amount:          draft.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("order creation rejected: %s", resp.Message)
	}

	session := &PaymentSession{
		SessionID: sessionID,
		OrderID:   resp.OrderID,
		Amount:    draft.Amount,
		State:     StatePending,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.persistSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   resp.OrderID,
		"amount":     draft.Amount,
	}).Info("Order draft submitted, payment pending")

	return &PaymentInitiation{
		OrderID:       resp.OrderID,
		Amount:        draft.Amount,
		Currency:      s.payment.Currency,
		RazorpayKeyID: s.payment.RazorpayKeyID,
	}, nil
}

// ConfirmPayment handles the provider's callback. The token triple is
// forwarded upstream for verification; on success the session is
// confirmed and the cart and applied coupon are cleared. On failure the
// session returns to pending with the cart intact, and every retry is a
// fresh user-initiated submission.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string, cb *PaymentCallback) (*order.Order, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.State != StatePending {
		return nil, ErrNoPendingPayment
	}

	session.State = StateVerifying
	session.UpdatedAt = time.Now().UTC()
	if err := s.persistSession(ctx, session); err != nil {
		return nil, err
	}

	resp, err := s.gateway.VerifyPayment(ctx, &upstream.VerifyPaymentRequest{
		RazorpayPaymentID: cb.RazorpayPaymentID,
		RazorpayOrderID:   cb.RazorpayOrderID,
		RazorpaySignature: cb.RazorpaySignature,
	})
	if err != nil {
		s.recordFailure(ctx, session, err.Error())
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}
	if !resp.Success {
		s.recordFailure(ctx, session, resp.Message)
		return nil, fmt.Errorf("payment verification rejected: %s", resp.Message)
	}

	// Confirmed: the cart and coupon are cleared here and nowhere else.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.log.WithField("session_id", sessionID).WithError(err).Error("Failed to clear cart after confirmed payment")
	}
	if err := s.coupons.Remove(ctx, sessionID); err != nil {
		s.log.WithField("session_id", sessionID).WithError(err).Error("Failed to remove coupon after confirmed payment")
	}

	session.State = StateConfirmed
	session.LastFailure = ""
	session.UpdatedAt = time.Now().UTC()
	if err := s.persistSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   session.OrderID,
	}).Info("Payment confirmed")

	return resp.Order, nil
}

// ReportFailure records a provider-reported failure (user cancelled,
// payment declined). The session returns to pending; the cart is kept.
func (s *Service) ReportFailure(ctx context.Context, sessionID, reason string) error {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoPendingPayment
	}
	s.recordFailure(ctx, session, reason)
	return nil
}

// Session returns the persisted checkout state, or nil when the session
// has never submitted a draft.
func (s *Service) Session(ctx context.Context, sessionID string) (*PaymentSession, error) {
	data, err := s.adapter.Load(ctx, checkoutKey(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session PaymentSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding corrupt checkout session")
		return nil, nil
	}
	return &session, nil
}

// recordFailure notes the failure and resets the session to pending so
// the user may retry from the same cart.
func (s *Service) recordFailure(ctx context.Context, session *PaymentSession, reason string) {
	s.log.WithFields(logrus.Fields{
		"session_id": session.SessionID,
		"order_id":   session.OrderID,
		"reason":     reason,
	}).Warn("Payment failed")

	session.State = StatePending
	session.LastFailure = reason
	session.UpdatedAt = time.Now().UTC()
	if err := s.persistSession(ctx, session); err != nil {
		s.log.WithField("session_id", session.SessionID).WithError(err).Error("Failed to persist checkout session")
	}
}

func (s *Service) persistSession(ctx context.Context, session *PaymentSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize checkout session: %w", err)
	}
	if err := s.adapter.Save(ctx, checkoutKey(session.SessionID), data); err != nil {
		return fmt.Errorf("failed to persist checkout session: %w", err)
	}
	return nil
}
