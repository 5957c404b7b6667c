package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/pricing"
	orderrepo "storefront/internal/repository/order"
)

// ErrEmptyCart rejects checkout of a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

type cartStore interface {
	Get(ctx context.Context, identity string) (*domain.Cart, error)
	Clear(ctx context.Context, identity string) error
}

type Service struct {
	carts    cartStore
	repo     orderrepo.Repository
	notifier notify.Sender
	policy   pricing.Policy
	logger   *log.Logger
}

func New(carts cartStore, repo orderrepo.Repository, notifier notify.Sender, policy pricing.Policy, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{carts: carts, repo: repo, notifier: notifier, policy: policy, logger: logger}
}

// Checkout captures the cart as an immutable order, clears the cart, and
// sends a confirmation SMS. The SMS is best-effort: a delivery failure is
// logged, never unwinds the order.
func (s *Service) Checkout(ctx context.Context, identity, phoneNumber string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := pricing.ComputeTotals(cart.Lines, s.policy)
	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			ProductID:      line.Snapshot.ProductID,
			Name:           line.Snapshot.Name,
			UnitPriceCents: line.Snapshot.PriceCents,
			Quantity:       line.Quantity,
		})
	}

	created, err := s.repo.Create(ctx, domain.Order{
		ID:            uuid.NewString(),
		Identity:      identity,
		PhoneNumber:   strings.TrimSpace(phoneNumber),
		Lines:         lines,
		SubtotalCents: totals.SubtotalCents,
		ShippingCents: totals.ShippingCents,
		DiscountCents: totals.DiscountCents,
		TaxCents:      totals.TaxCents,
		TotalCents:    totals.TotalCents,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, identity); err != nil {
		s.logger.Printf("order service: clear cart after checkout order=%s error=%v", created.ID, err)
	}

	if s.notifier != nil && created.PhoneNumber != "" {
		msg := fmt.Sprintf("Order Confirmation: order %s, %d item(s), total %d cents", created.ID, totals.ItemCount, created.TotalCents)
		if err := s.notifier.Send(ctx, created.PhoneNumber, msg); err != nil {
			s.logger.Printf("order service: sms order=%s error=%v", created.ID, err)
		}
	}

	return created, nil
}

// List returns the identity's past orders, newest first.
func (s *Service) List(ctx context.Context, identity string) ([]domain.Order, error) {
	return s.repo.ListByIdentity(ctx, identity)
}
