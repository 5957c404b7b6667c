package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name          string
	Brand         string
	Category      string
	PriceCents    int64
	MRPCents      int64
	InStock       bool
	StockQuantity int
	Tags          []string
}

// Apply inserts demo catalog data for manual testing. It is idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:          "Almond Milk 1L",
			Brand:         "Nutty Farms",
			Category:      "Dairy",
			PriceCents:    249,
			MRPCents:      299,
			InStock:       true,
			StockQuantity: 40,
			Tags:          []string{"vegan", "lactose-free"},
		},
		{
			Name:          "Oat Cookies",
			Brand:         "Nutty Farms",
			Category:      "Snacks",
			PriceCents:    199,
			MRPCents:      249,
			InStock:       true,
			StockQuantity: 25,
		},
		{
			Name:          "Basmati Rice 5kg",
			Brand:         "Field Gold",
			Category:      "Grocery",
			PriceCents:    1299,
			MRPCents:      1499,
			InStock:       true,
			StockQuantity: 12,
			Tags:          []string{"staple"},
		},
		{
			Name:          "Cold Brew Coffee",
			Brand:         "Morning Owl",
			Category:      "Beverages",
			PriceCents:    399,
			MRPCents:      399,
			InStock:       false,
			StockQuantity: 0,
		},
	}

	for _, p := range products {
		if err := ensureBrand(ctx, pool, p.Brand); err != nil {
			return fmt.Errorf("ensure brand %s: %w", p.Brand, err)
		}
		if err := ensureCategory(ctx, pool, p.Category); err != nil {
			return fmt.Errorf("ensure category %s: %w", p.Category, err)
		}
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func ensureBrand(ctx context.Context, pool *pgxpool.Pool, name string) error {
	const q = `
INSERT INTO brands (name)
VALUES ($1)
ON CONFLICT (name) DO NOTHING
`
	_, err := pool.Exec(ctx, q, name)
	return err
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) error {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO NOTHING
`
	_, err := pool.Exec(ctx, q, name)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, brand, category, price_cents, mrp_cents, in_stock, stock_quantity, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (name, brand) DO UPDATE
SET category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    mrp_cents = EXCLUDED.mrp_cents,
    in_stock = EXCLUDED.in_stock,
    stock_quantity = EXCLUDED.stock_quantity,
    tags = EXCLUDED.tags
`
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := pool.Exec(ctx, q, p.Name, p.Brand, p.Category, p.PriceCents, p.MRPCents, p.InStock, p.StockQuantity, tags)
	return err
}
