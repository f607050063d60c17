// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

// ErrLineNotFound is returned when a quantity update targets a product
// that is not in the cart.
var ErrLineNotFound = errors.New("cart: line not found")

// Store is the session-scoped cart collection. Every mutation persists
// the full line list through the injected adapter before returning, so
// the persisted state never lags the in-memory view.
type Store struct {
	adapter storage.Adapter
	log     *logrus.Logger
}

// NewStore creates a cart store over the given persistence adapter
func NewStore(adapter storage.Adapter, log *logrus.Logger) *Store {
	return &Store{
		adapter: adapter,
		log:     log,
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Lines hydrates the cart for a session. A missing key or corrupt
// payload yields an empty cart rather than an error.
func (s *Store) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	data, err := s.adapter.Load(ctx, cartKey(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return []Line{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding corrupt cart data")
		return []Line{}, nil
	}
	return lines, nil
}

// Add merges line into the cart. An existing line with the same product
// ID has its quantity incremented; otherwise the line is appended. The
// incoming quantity is floored at 1.
func (s *Store) Add(ctx context.Context, sessionID string, line Line) ([]Line, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if line.Quantity < 1 {
		line.Quantity = 1
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove filters out the line with the given product ID. Removing an
// absent product is a no-op; the resulting list is persisted either way.
func (s *Store) Remove(ctx context.Context, sessionID, productID string) ([]Line, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}

	if err := s.persist(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// SetQuantity sets the quantity of an existing line, floored at 1.
// Returns ErrLineNotFound when the product is not in the cart.
func (s *Store) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Line, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		s.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"product_id": productID,
		}).Warn("Quantity update for product not in cart")
		return nil, ErrLineNotFound
	}

	if err := s.persist(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// ReplaceAll overwrites the whole collection, e.g. when hydrating from
// a different source of truth.
func (s *Store) ReplaceAll(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	return s.persist(ctx, sessionID, lines)
}

// Clear removes the cart entirely
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.adapter.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, sessionID string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	if err := s.adapter.Save(ctx, cartKey(sessionID), data); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
