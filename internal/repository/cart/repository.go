package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists one cart per identity. Carts are created implicitly
// on the first write; totals are never stored.
type Repository interface {
	// GetByIdentity returns the cart with its lines, or domain.ErrNotFound
	// when the identity has never written a cart.
	GetByIdentity(ctx context.Context, identity string) (*domain.Cart, error)

	// AddOrIncrement merges delta into the line for snap.ProductID. A line
	// reaching quantity <= 0 is deleted. When no line exists, a new one is
	// inserted only if delta > 0 and snap is non-nil; otherwise the call is
	// a no-op.
	AddOrIncrement(ctx context.Context, identity, productID string, delta int, snap *domain.Snapshot) error

	// SetQuantity sets the line to exactly quantity. quantity < 1 deletes
	// the line (no-op when absent); otherwise a missing line is
	// domain.ErrNotFound.
	SetQuantity(ctx context.Context, identity, productID string, quantity int) error

	// Remove deletes the line unconditionally; absent lines are a no-op.
	Remove(ctx context.Context, identity, productID string) error

	// Clear deletes every line for the identity.
	Clear(ctx context.Context, identity string) error
}
