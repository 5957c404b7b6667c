package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	cart          *domain.Cart
	getErr        error
	addErr        error
	setErr        error
	removeErr     error
	clearErr      error
	lastIdentity  string
	lastProductID string
	lastDelta     int
	lastSnap      *domain.Snapshot
	lastQuantity  int
	clearCalls    int
}

func (s *stubRepo) GetByIdentity(_ context.Context, identity string) (*domain.Cart, error) {
	s.lastIdentity = identity
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.cart, nil
}

func (s *stubRepo) AddOrIncrement(_ context.Context, identity, productID string, delta int, snap *domain.Snapshot) error {
	s.lastIdentity = identity
	s.lastProductID = productID
	s.lastDelta = delta
	s.lastSnap = snap
	return s.addErr
}

func (s *stubRepo) SetQuantity(_ context.Context, identity, productID string, quantity int) error {
	s.lastIdentity = identity
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.setErr
}

func (s *stubRepo) Remove(_ context.Context, identity, productID string) error {
	s.lastIdentity = identity
	s.lastProductID = productID
	return s.removeErr
}

func (s *stubRepo) Clear(_ context.Context, identity string) error {
	s.lastIdentity = identity
	s.clearCalls++
	return s.clearErr
}

type stubResolver struct {
	snap  *domain.Snapshot
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestGetMissingCartIsEmpty(t *testing.T) {
	svc := &Service{repo: &stubRepo{getErr: domain.ErrNotFound}}
	cart, err := svc.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.Identity != "sess-1" || len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart for identity, got %+v", cart)
	}
	if cart.ItemCount() != 0 || cart.TotalPriceCents() != 0 {
		t.Fatalf("empty cart must derive zero totals")
	}
}

func TestGetRepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := &Service{repo: &stubRepo{getErr: boom}}
	if _, err := svc.Get(context.Background(), "sess-1"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestAddOrIncrementValidation(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	if err := svc.AddOrIncrement(context.Background(), "sess-1", "  ", 1); err == nil || err.Error() != "productId required" {
		t.Fatalf("expected productId error, got %v", err)
	}
	if err := svc.AddOrIncrement(context.Background(), "sess-1", "p1", 0); err == nil || err.Error() != "quantity delta must be non-zero" {
		t.Fatalf("expected delta error, got %v", err)
	}
}

func TestAddOrIncrementResolvesSnapshot(t *testing.T) {
	repo := &stubRepo{}
	res := &stubResolver{snap: &domain.Snapshot{ProductID: "p1", PriceCents: 200, InStock: true}}
	svc := &Service{repo: repo, resolver: res}

	if err := svc.AddOrIncrement(context.Background(), "sess-1", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastIdentity != "sess-1" || repo.lastProductID != "p1" || repo.lastDelta != 2 {
		t.Fatalf("repo not called as expected: %+v", repo)
	}
	if repo.lastSnap == nil || repo.lastSnap.PriceCents != 200 {
		t.Fatalf("expected resolved snapshot to reach repo, got %+v", repo.lastSnap)
	}
}

func TestAddOrIncrementProductNotFound(t *testing.T) {
	svc := &Service{repo: &stubRepo{}, resolver: &stubResolver{err: domain.ErrProductNotFound}}
	err := svc.AddOrIncrement(context.Background(), "sess-1", "missing", 1)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestAddOrIncrementRejectsOutOfStock(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, resolver: &stubResolver{snap: &domain.Snapshot{ProductID: "p1", InStock: false}}}
	err := svc.AddOrIncrement(context.Background(), "sess-1", "p1", 1)
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
	if repo.lastDelta != 0 {
		t.Fatalf("repo must not be called on rejected add")
	}
}

func TestDecrementSkipsResolver(t *testing.T) {
	// A product withdrawn from the catalog can still be decremented out.
	repo := &stubRepo{}
	res := &stubResolver{err: domain.ErrProductNotFound}
	svc := &Service{repo: repo, resolver: res}

	if err := svc.AddOrIncrement(context.Background(), "sess-1", "p1", -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.calls != 0 {
		t.Fatalf("resolver must not run for negative deltas")
	}
	if repo.lastDelta != -1 || repo.lastSnap != nil {
		t.Fatalf("repo not called as expected: delta=%d snap=%v", repo.lastDelta, repo.lastSnap)
	}
}

func TestAddOrIncrementWithoutResolver(t *testing.T) {
	svc := &Service{repo: &stubRepo{}}
	err := svc.AddOrIncrement(context.Background(), "sess-1", "p1", 1)
	if err == nil || err.Error() != "product resolver unavailable" {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestSetQuantityRemovesAtZero(t *testing.T) {
	repo := &stubRepo{}
	res := &stubResolver{}
	svc := &Service{repo: repo, resolver: res}

	if err := svc.SetQuantity(context.Background(), "sess-1", "p1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuantity != 0 {
		t.Fatalf("expected removal set, got quantity %d", repo.lastQuantity)
	}
	if res.calls != 0 {
		t.Fatalf("resolver must not run for removals")
	}
}

func TestSetQuantityClampsToStock(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, resolver: &stubResolver{snap: &domain.Snapshot{ProductID: "p1", InStock: true, StockQuantity: 3}}}

	if err := svc.SetQuantity(context.Background(), "sess-1", "p1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuantity != 3 {
		t.Fatalf("expected clamp to 3, got %d", repo.lastQuantity)
	}
}

func TestSetQuantityUnknownStockUnclamped(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo, resolver: &stubResolver{snap: &domain.Snapshot{ProductID: "p1", InStock: true}}}

	if err := svc.SetQuantity(context.Background(), "sess-1", "p1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuantity != 10 {
		t.Fatalf("expected unclamped quantity, got %d", repo.lastQuantity)
	}
}

func TestRemovePassesThrough(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}
	if err := svc.Remove(context.Background(), "sess-1", "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastProductID != "p1" {
		t.Fatalf("remove not called as expected")
	}
}

func TestClearPassesThrough(t *testing.T) {
	repo := &stubRepo{}
	svc := &Service{repo: repo}
	if err := svc.Clear(context.Background(), "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", repo.clearCalls)
	}
}

func TestIdentityLockEvictedAfterUnlock(t *testing.T) {
	var locks identityLocks

	unlock := locks.lock("guest:a")
	if len(locks.m) != 1 {
		t.Fatalf("expected one lock entry while held, got %d", len(locks.m))
	}
	unlock()
	if len(locks.m) != 0 {
		t.Fatalf("expected lock entry evicted after unlock, got %d", len(locks.m))
	}
}

func TestIdentityLockEvictedAfterContention(t *testing.T) {
	var locks identityLocks

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("guest:a")
			unlock()
		}()
	}
	wg.Wait()

	if len(locks.m) != 0 {
		t.Fatalf("expected no lock entries after all holders released, got %d", len(locks.m))
	}
}
