package order

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (id, identity, phone_number, subtotal_cents, shipping_cents, discount_cents, tax_cents, total_cents, lines)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at
`
	out := o
	err := r.pool.QueryRow(ctx, q,
		o.ID,
		o.Identity,
		o.PhoneNumber,
		o.SubtotalCents,
		o.ShippingCents,
		o.DiscountCents,
		o.TaxCents,
		o.TotalCents,
		o.Lines,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListByIdentity(ctx context.Context, identity string) ([]domain.Order, error) {
	const q = `
SELECT id::text, identity, phone_number, subtotal_cents, shipping_cents, discount_cents, tax_cents, total_cents, lines, created_at
FROM orders
WHERE identity = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.Identity,
			&o.PhoneNumber,
			&o.SubtotalCents,
			&o.ShippingCents,
			&o.DiscountCents,
			&o.TaxCents,
			&o.TotalCents,
			&o.Lines,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
