package brand

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Brand, error) {
	const q = `
SELECT id::text, name, COALESCE(image_url, ''), created_at
FROM brands
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.ImageURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error) {
	const q = `
INSERT INTO brands (name, image_url)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (name) DO UPDATE
SET image_url = COALESCE(NULLIF(EXCLUDED.image_url, ''), brands.image_url)
RETURNING id::text, created_at, COALESCE(image_url, '')
`
	out := b
	if err := r.pool.QueryRow(ctx, q, b.Name, b.ImageURL).Scan(&out.ID, &out.CreatedAt, &out.ImageURL); err != nil {
		return nil, err
	}
	return &out, nil
}
