package repository

import (
	"context"

	"github.com/utafrali/wishlist-service/internal/domain"
)

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	// Get retrieves a wishlist by its user ID. Returns ErrNotFound if the
	// user has no wishlist.
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)

	// GetByUserAndProduct retrieves the wishlist for userID only if it
	// contains the given product. Returns ErrNotFound if either the wishlist
	// or the product is absent. Equivalent to Get plus filtering on the
	// product ID.
	GetByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Wishlist, error)

	// Create persists a new wishlist atomically. Returns ErrAlreadyExists if
	// a wishlist for the user is already stored, including when a concurrent
	// create won the race.
	Create(ctx context.Context, wishlist *domain.Wishlist) error

	// SaveIfVersion persists the wishlist only if the stored document still
	// carries expectedVersion (atomic compare-and-swap). The wishlist passed
	// in must already carry the incremented version. Returns false, without
	// writing, when the stored version diverged or the document is gone.
	SaveIfVersion(ctx context.Context, wishlist *domain.Wishlist, expectedVersion int) (bool, error)
}
