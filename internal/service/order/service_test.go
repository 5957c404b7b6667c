package order

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type stubCarts struct {
	cart       *domain.Cart
	getErr     error
	clearErr   error
	clearCalls int
}

func (s *stubCarts) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.getErr
}

func (s *stubCarts) Clear(_ context.Context, _ string) error {
	s.clearCalls++
	return s.clearErr
}

type stubOrders struct {
	created *domain.Order
	err     error
}

func (s *stubOrders) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = &o
	return &o, nil
}

func (s *stubOrders) ListByIdentity(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

type stubSender struct {
	lastTo  string
	lastMsg string
	err     error
}

func (s *stubSender) Send(_ context.Context, to, message string) error {
	s.lastTo = to
	s.lastMsg = message
	return s.err
}

func cartWith(lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{ID: "c1", Identity: "sess-1", Lines: lines}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := New(&stubCarts{cart: cartWith()}, &stubOrders{}, nil, pricing.Policy{}, nil)
	if _, err := svc.Checkout(context.Background(), "sess-1", "+100"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestCheckoutCapturesTotalsAndClears(t *testing.T) {
	carts := &stubCarts{cart: cartWith(
		domain.CartLine{Snapshot: domain.Snapshot{ProductID: "a", Name: "A", PriceCents: 100}, Quantity: 2},
		domain.CartLine{Snapshot: domain.Snapshot{ProductID: "b", Name: "B", PriceCents: 50}, Quantity: 1},
	)}
	orders := &stubOrders{}
	sender := &stubSender{}
	svc := New(carts, orders, sender, pricing.Policy{}, nil)

	got, err := svc.Checkout(context.Background(), "sess-1", "+15551234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SubtotalCents != 250 || got.TotalCents != 250 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(got.Lines))
	}
	if carts.clearCalls != 1 {
		t.Fatalf("expected cart cleared once, got %d", carts.clearCalls)
	}
	if sender.lastTo != "+15551234" {
		t.Fatalf("expected sms to phone, got %q", sender.lastTo)
	}
}

func TestCheckoutSMSFailureDoesNotFailOrder(t *testing.T) {
	carts := &stubCarts{cart: cartWith(domain.CartLine{Snapshot: domain.Snapshot{ProductID: "a", PriceCents: 100}, Quantity: 1})}
	svc := New(carts, &stubOrders{}, &stubSender{err: errors.New("twilio down")}, pricing.Policy{}, nil)

	if _, err := svc.Checkout(context.Background(), "sess-1", "+100"); err != nil {
		t.Fatalf("sms failure must not fail checkout: %v", err)
	}
}

func TestCheckoutRepoError(t *testing.T) {
	carts := &stubCarts{cart: cartWith(domain.CartLine{Snapshot: domain.Snapshot{ProductID: "a", PriceCents: 100}, Quantity: 1})}
	boom := errors.New("insert failed")
	svc := New(carts, &stubOrders{err: boom}, nil, pricing.Policy{}, nil)

	if _, err := svc.Checkout(context.Background(), "sess-1", "+100"); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if carts.clearCalls != 0 {
		t.Fatalf("cart must not be cleared when the order was not persisted")
	}
}
