// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Reason explains why a coupon was not applicable
type Reason string

const (
	ReasonInvalid Reason = "invalid"
	ReasonExpired Reason = "expired"
)

// Application is the result of validating a coupon code
type Application struct {
	Code            string          `json:"code"`
	Applicable      bool            `json:"applicable"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Reason          Reason          `json:"reason,omitempty"`
}

// StatusChecker is the slice of the upstream client the validator needs
type StatusChecker interface {
	CouponStatus(ctx context.Context, code string) (*upstream.CouponStatusResponse, error)
}

// Service validates coupon codes against the commerce API and tracks
// the single coupon applied to a session. At most one coupon is active
// per session; applying a new one replaces the old, never stacks.
type Service struct {
	checker StatusChecker
	adapter storage.Adapter
	log     *logrus.Logger
	now     func() time.Time
}

// NewService creates a coupon service
func NewService(checker StatusChecker, adapter storage.Adapter, log *logrus.Logger) *Service {
	return &Service{
		checker: checker,
		adapter: adapter,
		log:     log,
		now:     time.Now,
	}
}

func couponKey(sessionID string) string {
	return fmt.Sprintf("coupon:%s", sessionID)
}

// Validate checks a code against the commerce API. A service-level
// rejection reports "invalid"; a recognized code whose expiry is not
// strictly in the future reports "expired". Network and server errors
// surface as errors and the caller may simply re-invoke.
func (s *Service) Validate(ctx context.Context, code string) (*Application, error) {
	resp, err := s.checker.CouponStatus(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check coupon: %w", err)
	}

	if !resp.Success {
		return &Application{Code: code, Reason: ReasonInvalid}, nil
	}

	// Exclusive boundary: a coupon expiring exactly now is expired.
	if !s.now().Before(resp.Coupon.Expiry) {
		return &Application{Code: code, Reason: ReasonExpired}, nil
	}

	return &Application{
		Code:            code,
		Applicable:      true,
		DiscountPercent: resp.Coupon.Discount,
	}, nil
}

// Apply validates a code and, when applicable, stores it as the
// session's active coupon, replacing any previous one.
func (s *Service) Apply(ctx context.Context, sessionID, code string) (*Application, error) {
	app, err := s.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	if !app.Applicable {
		return app, nil
	}

	data, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize coupon: %w", err)
	}
	if err := s.adapter.Save(ctx, couponKey(sessionID), data); err != nil {
		return nil, fmt.Errorf("failed to persist applied coupon: %w", err)
	}
	return app, nil
}

// Applied returns the session's active coupon, or nil when none is set.
// Corrupt stored data is discarded as if no coupon were applied.
func (s *Service) Applied(ctx context.Context, sessionID string) (*Application, error) {
	data, err := s.adapter.Load(ctx, couponKey(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load applied coupon: %w", err)
	}

	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding corrupt applied coupon")
		return nil, nil
	}
	return &app, nil
}

// Remove drops the session's active coupon, idempotently
func (s *Service) Remove(ctx context.Context, sessionID string) error {
	return s.adapter.Delete(ctx, couponKey(sessionID))
}
