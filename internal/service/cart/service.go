package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	resolver snapshotResolver
	locks    identityLocks
}

type cartRepo interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.Cart, error)
	AddOrIncrement(ctx context.Context, identity, productID string, delta int, snap *domain.Snapshot) error
	SetQuantity(ctx context.Context, identity, productID string, quantity int) error
	Remove(ctx context.Context, identity, productID string) error
	Clear(ctx context.Context, identity string) error
}

type snapshotResolver interface {
	Resolve(ctx context.Context, productID string) (*domain.Snapshot, error)
}

func New(repo cartrepo.Repository, resolver snapshotResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Get returns the identity's cart. An identity that has never written a
// cart gets an empty one, not an error.
func (s *Service) Get(ctx context.Context, identity string) (*domain.Cart, error) {
	cart, err := s.repo.GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.Cart{Identity: identity}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddOrIncrement merges delta into the identity's line for productID.
// Positive deltas resolve a fresh snapshot and are rejected with
// domain.ErrOutOfStock when the product is unavailable; a merge that lands
// at or below zero removes the line. Negative deltas never touch the
// catalog, so a product withdrawn after being added can still be
// decremented out of the cart.
func (s *Service) AddOrIncrement(ctx context.Context, identity, productID string, delta int) error {
	if strings.TrimSpace(productID) == "" {
		return errors.New("productId required")
	}
	if delta == 0 {
		return errors.New("quantity delta must be non-zero")
	}

	var snap *domain.Snapshot
	if delta > 0 {
		if s.resolver == nil {
			return errors.New("product resolver unavailable")
		}
		resolved, err := s.resolver.Resolve(ctx, productID)
		if err != nil {
			return err
		}
		if !resolved.InStock {
			return domain.ErrOutOfStock
		}
		snap = resolved
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	return s.repo.AddOrIncrement(ctx, identity, productID, delta, snap)
}

// SetQuantity sets the line to exactly quantity. quantity < 1 removes the
// line (removal of an absent line is a no-op); a positive quantity for a
// line the cart does not hold fails with domain.ErrNotFound, since there
// is no snapshot to build a new line from. The quantity is clamped to the
// product's stock count when that figure is known.
func (s *Service) SetQuantity(ctx context.Context, identity, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return errors.New("productId required")
	}

	unlock := s.locks.lock(identity)
	defer unlock()

	if quantity < 1 {
		return s.repo.SetQuantity(ctx, identity, productID, 0)
	}

	if s.resolver != nil {
		if snap, err := s.resolver.Resolve(ctx, productID); err == nil {
			if snap.StockQuantity > 0 && quantity > snap.StockQuantity {
				quantity = snap.StockQuantity
			}
		}
	}

	return s.repo.SetQuantity(ctx, identity, productID, quantity)
}

// Remove deletes the line unconditionally; a missing line is a no-op.
func (s *Service) Remove(ctx context.Context, identity, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return errors.New("productId required")
	}
	unlock := s.locks.lock(identity)
	defer unlock()
	return s.repo.Remove(ctx, identity, productID)
}

// Clear empties the identity's cart.
func (s *Service) Clear(ctx context.Context, identity string) error {
	unlock := s.locks.lock(identity)
	defer unlock()
	return s.repo.Clear(ctx, identity)
}

// identityLocks serializes writes per cart identity so concurrent
// mutations cannot lose updates on the merge-by-summing path. Entries are
// reference-counted and evicted once the last holder unlocks, so the map
// does not accumulate a mutex per guest session for the process lifetime.
type identityLocks struct {
	mu sync.Mutex
	m  map[string]*identityLock
}

type identityLock struct {
	sync.Mutex
	refs int
}

func (l *identityLocks) lock(identity string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*identityLock)
	}
	lk, ok := l.m[identity]
	if !ok {
		lk = &identityLock{}
		l.m[identity] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.m, identity)
		}
		l.mu.Unlock()
	}
}
