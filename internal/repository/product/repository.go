package product

import (
	"context"

	"storefront/internal/domain"
)

// ListFilter narrows and pages a catalog listing. Page is 1-based.
type ListFilter struct {
	Page     int
	Limit    int
	Brand    string
	Category string
	Query    string
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) (*domain.ProductPage, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Writer is the mutation surface used by the importer and seeder.
type Writer interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
