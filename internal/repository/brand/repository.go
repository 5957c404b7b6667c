package brand

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Brand, error)
	Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error)
}
