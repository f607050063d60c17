// internal/domain/cart/wishlist.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

// Wishlist is the presence-only sibling of Store: entries have no
// quantity and adding a product already present is a no-op.
type Wishlist struct {
	adapter storage.Adapter
	log     *logrus.Logger
}

// NewWishlist creates a wishlist store over the given persistence adapter
func NewWishlist(adapter storage.Adapter, log *logrus.Logger) *Wishlist {
	return &Wishlist{
		adapter: adapter,
		log:     log,
	}
}

func wishlistKey(sessionID string) string {
	return fmt.Sprintf("wishlist:%s", sessionID)
}

// Entries hydrates the wishlist for a session. A missing key or corrupt
// payload yields an empty list.
func (w *Wishlist) Entries(ctx context.Context, sessionID string) ([]WishlistEntry, error) {
	data, err := w.adapter.Load(ctx, wishlistKey(sessionID))
	if errors.Is(err, storage.ErrNotFound) {
		return []WishlistEntry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	var entries []WishlistEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		w.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Discarding corrupt wishlist data")
		return []WishlistEntry{}, nil
	}
	return entries, nil
}

// Add appends entry unless its product ID is already present
func (w *Wishlist) Add(ctx context.Context, sessionID string, entry WishlistEntry) ([]WishlistEntry, error) {
	entries, err := w.Entries(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, existing := range entries {
		if existing.ProductID == entry.ProductID {
			return entries, nil
		}
	}
	entries = append(entries, entry)

	if err := w.persist(ctx, sessionID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove filters out the entry with the given product ID, idempotently
func (w *Wishlist) Remove(ctx context.Context, sessionID, productID string) ([]WishlistEntry, error) {
	entries, err := w.Entries(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}

	if err := w.persist(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// ReplaceAll overwrites the whole collection
func (w *Wishlist) ReplaceAll(ctx context.Context, sessionID string, entries []WishlistEntry) error {
	if entries == nil {
		entries = []WishlistEntry{}
	}
	return w.persist(ctx, sessionID, entries)
}

// Clear removes the wishlist entirely
func (w *Wishlist) Clear(ctx context.Context, sessionID string) error {
	if err := w.adapter.Delete(ctx, wishlistKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

func (w *Wishlist) persist(ctx context.Context, sessionID string, entries []WishlistEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize wishlist: %w", err)
	}
	if err := w.adapter.Save(ctx, wishlistKey(sessionID), data); err != nil {
		return fmt.Errorf("failed to persist wishlist: %w", err)
	}
	return nil
}
