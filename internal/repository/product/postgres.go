package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

const defaultPageSize = 20

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// NewPostgresWriter exposes the mutation surface of the same repo for the
// importer and seeder.
func NewPostgresWriter(pool *pgxpool.Pool, logger *log.Logger) Writer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, name, brand, category, price_cents, mrp_cents, COALESCE(image_url, ''), in_stock, stock_quantity, tags, created_at`

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) (*domain.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}

	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	page := &domain.ProductPage{
		Products:        products,
		TotalProducts:   total,
		CurrentPage:     filter.Page,
		TotalPages:      totalPages,
		HasNextPage:     filter.Page < totalPages,
		HasPreviousPage: filter.Page > 1 && total > 0,
	}
	r.logger.Printf("product repo: list page=%d limit=%d count=%d total=%d", filter.Page, filter.Limit, len(products), total)
	return page, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	var p domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, brand, category, price_cents, mrp_cents, image_url, in_stock, stock_quantity, tags)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
ON CONFLICT (name, brand) DO UPDATE SET
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    mrp_cents = EXCLUDED.mrp_cents,
    image_url = EXCLUDED.image_url,
    in_stock = EXCLUDED.in_stock,
    stock_quantity = EXCLUDED.stock_quantity,
    tags = EXCLUDED.tags
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.Name,
		product.Brand,
		product.Category,
		product.PriceCents,
		product.MRPCents,
		product.ImageURL,
		product.InStock,
		product.StockQuantity,
		product.Tags,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q brand=%q error=%v", product.Name, product.Brand, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted name=%q brand=%q id=%s", res.Name, res.Brand, res.ID)
	return &res, nil
}

func buildWhere(filter ListFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	if filter.Brand != "" {
		args = append(args, filter.Brand)
		clauses = append(clauses, fmt.Sprintf("brand = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.Category,
		&p.PriceCents,
		&p.MRPCents,
		&p.ImageURL,
		&p.InStock,
		&p.StockQuantity,
		&p.Tags,
		&p.CreatedAt,
	)
}
