package domain

import (
	"time"

	apperrors "github.com/utafrali/wishlist-service/pkg/errors"
)

// Product represents a single wished product within a wishlist. Quantity is
// per-wishlist state, not a catalog attribute.
type Product struct {
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Wishlist represents a user's wishlist. There is exactly one wishlist per
// user; UserID is the aggregate identity. Products preserve insertion order
// and product IDs are unique within the list. Version is the optimistic
// locking counter compared-and-swapped on every write.
type Wishlist struct {
	UserID    string    `json:"user_id"`
	Products  []Product `json:"products"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalQuantity returns the sum of all product quantities in the wishlist.
func (w *Wishlist) TotalQuantity() int {
	var total int
	for _, p := range w.Products {
		total += p.Quantity
	}
	return total
}

// CheckCapacity validates the aggregate quantity invariant. It must be called
// after every mutation and before persisting.
func (w *Wishlist) CheckCapacity(max int) error {
	if w.TotalQuantity() > max {
		return apperrors.CapacityExceeded(max)
	}
	return nil
}

// FindProductIndex returns the index of the product matching the given ID.
// Matching is by exact string equality. Returns -1 if not found. This provides
// O(n) search but centralizes the logic for easier optimization later.
func (w *Wishlist) FindProductIndex(productID string) int {
	for i := range w.Products {
		if w.Products[i].ProductID == productID {
			return i
		}
	}
	return -1
}
