// internal/domain/coupon/service_test.go
package coupon

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
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

type fakeChecker struct {
	resp *upstream.CouponStatusResponse
	err  error
}

func (f *fakeChecker) CouponStatus(_ context.Context, _ string) (*upstream.CouponStatusResponse, error) {
	return f.resp, f.err
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(checker StatusChecker, adapter storage.Adapter, now time.Time) *Service {
	svc := NewService(checker, adapter, newTestLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func validResponse(expiry time.Time) *upstream.CouponStatusResponse {
	resp := &upstream.CouponStatusResponse{Success: true}
	resp.Coupon.Code = "SAVE10"
	resp.Coupon.Discount = decimal.NewFromInt(10)
	resp.Coupon.Expiry = expiry
	return resp
}

func TestValidateApplicableCoupon(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(
		&fakeChecker{resp: validResponse(now.Add(24 * time.Hour))},
		storage.NewMemoryAdapter(), now)

	app, err := svc.Validate(context.Background(), "SAVE10")

	require.NoError(t, err)
	assert.True(t, app.Applicable)
	assert.True(t, decimal.NewFromInt(10).Equal(app.DiscountPercent))
	assert.Empty(t, app.Reason)
}

func TestValidateUnknownCoupon(t *testing.T) {
	svc := newTestService(
		&fakeChecker{resp: &upstream.CouponStatusResponse{Success: false, Message: "no such coupon"}},
		storage.NewMemoryAdapter(), time.Now())

	app, err := svc.Validate(context.Background(), "NOPE")

	require.NoError(t, err)
	assert.False(t, app.Applicable)
	assert.Equal(t, ReasonInvalid, app.Reason)
}

func TestValidateExpiryBoundaryIsExclusive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expiring exactly now is expired", func(t *testing.T) {
		svc := newTestService(&fakeChecker{resp: validResponse(now)}, storage.NewMemoryAdapter(), now)

		app, err := svc.Validate(context.Background(), "SAVE10")

		require.NoError(t, err)
		assert.False(t, app.Applicable)
		assert.Equal(t, ReasonExpired, app.Reason)
	})

	t.Run("expiring one second later is applicable", func(t *testing.T) {
		svc := newTestService(&fakeChecker{resp: validResponse(now.Add(time.Second))}, storage.NewMemoryAdapter(), now)

		app, err := svc.Validate(context.Background(), "SAVE10")

		require.NoError(t, err)
		assert.True(t, app.Applicable)
	})
}

func TestValidateNetworkErrorSurfaces(t *testing.T) {
	svc := newTestService(&fakeChecker{err: errors.New("connection refused")}, storage.NewMemoryAdapter(), time.Now())

	_, err := svc.Validate(context.Background(), "SAVE10")

	assert.Error(t, err)
}

func TestApplyReplacesPreviousCoupon(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	checker := &fakeChecker{resp: validResponse(now.Add(time.Hour))}
	svc := newTestService(checker, storage.NewMemoryAdapter(), now)
	ctx := context.Background()

	_, err := svc.Apply(ctx, "s1", "SAVE10")
	require.NoError(t, err)

	second := validResponse(now.Add(time.Hour))
	second.Coupon.Code = "SAVE20"
	second.Coupon.Discount = decimal.NewFromInt(20)
	checker.resp = second

	app, err := svc.Apply(ctx, "s1", "SAVE20")
	require.NoError(t, err)
	assert.True(t, app.Applicable)

	applied, err := svc.Applied(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, "SAVE20", applied.Code)
	assert.True(t, decimal.NewFromInt(20).Equal(applied.DiscountPercent))
}

func TestApplyRejectedCouponIsNotPersisted(t *testing.T) {
	svc := newTestService(
		&fakeChecker{resp: &upstream.CouponStatusResponse{Success: false}},
		storage.NewMemoryAdapter(), time.Now())
	ctx := context.Background()

	app, err := svc.Apply(ctx, "s1", "NOPE")
	require.NoError(t, err)
	assert.False(t, app.Applicable)

	applied, err := svc.Applied(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestAppliedMissingAndRemove(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeChecker{resp: validResponse(now.Add(time.Hour))}, storage.NewMemoryAdapter(), now)
	ctx := context.Background()

	applied, err := svc.Applied(ctx, "fresh")
	require.NoError(t, err)
	assert.Nil(t, applied)

	_, err = svc.Apply(ctx, "s1", "SAVE10")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "s1"))

	applied, err = svc.Applied(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, applied)

	// Removing again is fine
	assert.NoError(t, svc.Remove(ctx, "s1"))
}
