package domain

import "time"

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	PriceCents    int64     `json:"priceCents"`
	MRPCents      int64     `json:"mrpCents"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Snapshot is the denormalized copy of product fields a cart line carries.
// It is taken once at resolution time and never live-linked to the catalog:
// a line keeps the price that was current when the line was created, and is
// refreshed only when the whole cart is re-read from the server.
type Snapshot struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	PriceCents    int64     `json:"priceCents"`
	MRPCents      int64     `json:"mrpCents"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
	ResolvedAt    time.Time `json:"resolvedAt"`
}

// SnapshotOf captures the cart-relevant fields of a product.
func SnapshotOf(p Product, now time.Time) Snapshot {
	return Snapshot{
		ProductID:     p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		PriceCents:    p.PriceCents,
		MRPCents:      p.MRPCents,
		ImageURL:      p.ImageURL,
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		ResolvedAt:    now.UTC(),
	}
}
