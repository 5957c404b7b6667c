package order

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	ListByIdentity(ctx context.Context, identity string) ([]domain.Order, error)
}
