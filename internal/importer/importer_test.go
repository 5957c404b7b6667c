package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

type stubBrandRepo struct {
	items []domain.Brand
}

func (s *stubBrandRepo) Upsert(_ context.Context, b domain.Brand) (*domain.Brand, error) {
	s.items = append(s.items, b)
	return &b, nil
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,brand,category,price_cents,mrp_cents,image_url,in_stock,stock_quantity,tags
Almond Milk 1L,Nutty Farms,Dairy,249,299,https://example.com/almond.jpg,true,40,vegan|lactose-free
Oat Cookies,Nutty Farms,Snacks,199,,,false,0,
Basmati Rice 5kg,Field Gold,Grocery,1299,1499,,,12,staple`

	products := &stubProductRepo{}
	brands := &stubBrandRepo{}
	categories := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), products, brands, categories)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	first := products.items[0]
	if first.Name != "Almond Milk 1L" || first.PriceCents != 249 || first.MRPCents != 299 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if !first.InStock || first.StockQuantity != 40 || len(first.Tags) != 2 {
		t.Fatalf("unexpected stock/tags: %+v", first)
	}

	// mrp falls back to price when absent.
	if products.items[1].MRPCents != 199 {
		t.Fatalf("expected mrp fallback, got %d", products.items[1].MRPCents)
	}
	if products.items[1].InStock {
		t.Fatalf("expected explicit in_stock=false to win")
	}

	// in_stock is derived from stock quantity when the column is empty.
	if !products.items[2].InStock {
		t.Fatalf("expected in_stock derived from stock_quantity")
	}

	// Brands are deduplicated within a run, categories are not repeated either.
	if len(brands.items) != 2 {
		t.Fatalf("expected 2 brand upserts, got %d", len(brands.items))
	}
	if len(categories.items) != 3 {
		t.Fatalf("expected 3 category upserts, got %d", len(categories.items))
	}
}

func TestCSVImporter_RejectsIncompleteRow(t *testing.T) {
	csvData := `name,brand,category,price_cents
Almond Milk 1L,,Dairy,249`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubBrandRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for row missing brand")
	}
}

func TestCSVImporter_RejectsNonPositivePrice(t *testing.T) {
	csvData := `name,brand,category,price_cents
Freebie,Acme,Misc,0`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductRepo{}, &stubBrandRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}
