// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/coupon"
	"github.com/your-org/storefront-gateway/internal/domain/order"
	"github.com/your-org/storefront-gateway/internal/domain/pricing"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

type fakeGateway struct {
	createResp *upstream.CreateOrderResponse
	createErr  error
	verifyResp *upstream.VerifyPaymentResponse
	verifyErr  error

	lastCreate *upstream.CreateOrderRequest
}

func (f *fakeGateway) CreateOrder(_ context.Context, req *upstream.CreateOrderRequest) (*upstream.CreateOrderResponse, error) {
	f.lastCreate = req
	return f.createResp, f.createErr
}

func (f *fakeGateway) VerifyPayment(_ context.Context, _ *upstream.VerifyPaymentRequest) (*upstream.VerifyPaymentResponse, error) {
	return f.verifyResp, f.verifyErr
}

type alwaysValidChecker struct{}

func (alwaysValidChecker) CouponStatus(_ context.Context, code string) (*upstream.CouponStatusResponse, error) {
	resp := &upstream.CouponStatusResponse{Success: true}
	resp.Coupon.Code = code
	resp.Coupon.Discount = decimal.NewFromInt(10)
	resp.Coupon.Expiry = time.Now().Add(24 * time.Hour)
	return resp, nil
}

type fixture struct {
	svc     *Service
	carts   *cart.Store
	coupons *coupon.Service
	gateway *fakeGateway
	adapter *storage.MemoryAdapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	adapter := storage.NewMemoryAdapter()
	carts := cart.NewStore(adapter, logger)
	coupons := coupon.NewService(alwaysValidChecker{}, adapter, logger)
	pricer := pricing.NewEngine(config.PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(1000),
		ShippingFee:           decimal.NewFromInt(50),
		TaxRate:               decimal.NewFromFloat(0.18),
	})
	gateway := &fakeGateway{
		createResp: &upstream.CreateOrderResponse{Success: true, OrderID: "ord-1"},
		verifyResp: &upstream.VerifyPaymentResponse{Success: true, Order: &order.Order{ID: "ord-1"}},
	}
	payment := config.PaymentConfig{RazorpayKeyID: "rzp_test_key", Currency: "INR"}

	return &fixture{
		svc:     NewService(carts, coupons, pricer, gateway, adapter, payment, logger),
		carts:   carts,
		coupons: coupons,
		gateway: gateway,
		adapter: adapter,
	}
}

func validForm() *ShippingForm {
	return &ShippingForm{
		Address:        "1 Main Street",
		Region:         "Chennai",
		PostalCode:     "600001",
		Country:        "India",
		ShippingMethod: "Standard",
	}
}

func seedCart(t *testing.T, f *fixture, sessionID string) {
	t.Helper()
	_, err := f.carts.Add(context.Background(), sessionID, cart.Line{
		ProductID: "p1",
		Title:     "Test Product",
		UnitPrice: decimal.NewFromInt(500),
		Quantity:  2,
	})
	require.NoError(t, err)
}

func callback() *PaymentCallback {
	return &PaymentCallback{
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig_1",
	}
}

func TestBuildDraftRequiresEveryShippingField(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")

	blank := []struct {
		field string
		mut   func(*ShippingForm)
	}{
		{"address", func(s *ShippingForm) { s.Address = "" }},
		{"region", func(s *ShippingForm) { s.Region = "" }},
		{"postal_code", func(s *ShippingForm) { s.PostalCode = "" }},
		{"country", func(s *ShippingForm) { s.Country = "" }},
		{"shipping_method", func(s *ShippingForm) { s.ShippingMethod = "" }},
	}

	for _, tc := range blank {
		t.Run(tc.field, func(t *testing.T) {
			form := validForm()
			tc.mut(form)

			_, err := f.svc.BuildDraft(context.Background(), "s1", form)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}
}

func TestBuildDraftRejectsUnknownShippingMethod(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")

	form := validForm()
	form.ShippingMethod = "Teleport"

	_, err := f.svc.BuildDraft(context.Background(), "s1", form)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "shipping_method")
}

func TestBuildDraftRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BuildDraft(context.Background(), "s1", validForm())

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildDraftAssemblesPricing(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	_, err := f.coupons.Apply(ctx, "s1", "SAVE10")
	require.NoError(t, err)

	draft, err := f.svc.BuildDraft(ctx, "s1", validForm())
	require.NoError(t, err)

	require.Len(t, draft.Items, 1)
	assert.Equal(t, "p1", draft.Items[0].ProductID)
	assert.Equal(t, 2, draft.Items[0].Quantity)
	assert.Equal(t, "Standard", draft.ShippingMethod)
	assert.Equal(t, "Chennai", draft.ShippingAddress.City)

	// 1000 subtotal, free shipping, 180 tax, 100 discount
	assert.True(t, decimal.NewFromInt(1080).Equal(draft.Pricing.Total))
	assert.Equal(t, int64(1080), draft.Amount)
}

func TestSubmitCreatesPendingSession(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	init, err := f.svc.Submit(ctx, "s1", validForm())
	require.NoError(t, err)

	assert.Equal(t, "ord-1", init.OrderID)
	assert.Equal(t, "INR", init.Currency)
	assert.Equal(t, "rzp_test_key", init.RazorpayKeyID)

	session, err := f.svc.Session(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, StatePending, session.State)
	assert.Equal(t, "ord-1", session.OrderID)

	require.NotNil(t, f.gateway.lastCreate)
	assert.Equal(t, init.Amount, f.gateway.lastCreate.Amount)
}

func TestSubmitUpstreamFailure(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	f.gateway.createErr = errors.New("upstream down")

	_, err := f.svc.Submit(context.Background(), "s1", validForm())

	assert.Error(t, err)

	session, err := f.svc.Session(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestConfirmPaymentSuccessClearsCartAndCoupon(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	_, err := f.coupons.Apply(ctx, "s1", "SAVE10")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "s1", validForm())
	require.NoError(t, err)

	confirmed, err := f.svc.ConfirmPayment(ctx, "s1", callback())
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, "ord-1", confirmed.ID)

	session, err := f.svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, session.State)

	lines, err := f.carts.Lines(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	applied, err := f.coupons.Applied(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestConfirmPaymentWithoutSubmission(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmPayment(context.Background(), "s1", callback())

	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestConfirmPaymentVerificationRejectedKeepsCart(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "s1", validForm())
	require.NoError(t, err)

	f.gateway.verifyResp = &upstream.VerifyPaymentResponse{Success: false, Message: "signature mismatch"}

	_, err = f.svc.ConfirmPayment(ctx, "s1", callback())
	assert.Error(t, err)

	// Session returns to pending with the failure noted; cart intact.
	session, err := f.svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, session.State)
	assert.Equal(t, "signature mismatch", session.LastFailure)

	lines, err := f.carts.Lines(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestConfirmPaymentRetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "s1", validForm())
	require.NoError(t, err)

	f.gateway.verifyErr = errors.New("timeout")
	_, err = f.svc.ConfirmPayment(ctx, "s1", callback())
	require.Error(t, err)

	f.gateway.verifyErr = nil
	confirmed, err := f.svc.ConfirmPayment(ctx, "s1", callback())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", confirmed.ID)
}

func TestReportFailure(t *testing.T) {
	f := newFixture(t)
	seedCart(t, f, "s1")
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "s1", validForm())
	require.NoError(t, err)

	require.NoError(t, f.svc.ReportFailure(ctx, "s1", "user cancelled"))

	session, err := f.svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, session.State)
	assert.Equal(t, "user cancelled", session.LastFailure)

	lines, err := f.carts.Lines(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestReportFailureWithoutSubmission(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ReportFailure(context.Background(), "s1", "user cancelled")

	assert.ErrorIs(t, err, ErrNoPendingPayment)
}
