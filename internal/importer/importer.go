// Package importer loads catalog CSV exports into the database. A row names
// its brand and category by name; both are upserted before the product so a
// fresh database can be filled from one file.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type BrandWriter interface {
	Upsert(ctx context.Context, b domain.Brand) (*domain.Brand, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads catalog CSV rows and inserts/updates products along
// with the brands and categories they reference.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	brands     BrandWriter
	categories CategoryWriter

	seenBrands     map[string]bool
	seenCategories map[string]bool
}

func NewCSVImporter(r io.Reader, products ProductWriter, brands BrandWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:         csvr,
		products:       products,
		brands:         brands,
		categories:     categories,
		seenBrands:     map[string]bool{},
		seenCategories: map[string]bool{},
	}
}

type csvRow struct {
	Name          string
	Brand         string
	Category      string
	PriceCents    int64
	MRPCents      int64
	ImageURL      string
	InStock       bool
	StockQuantity int
	Tags          []string
}

// Run parses CSV rows and upserts products. It returns the number of
// products written, even when a later row fails.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if err := i.ensureBrand(ctx, row.Brand); err != nil {
		return fmt.Errorf("upsert brand %q: %w", row.Brand, err)
	}
	if err := i.ensureCategory(ctx, row.Category); err != nil {
		return fmt.Errorf("upsert category %q: %w", row.Category, err)
	}

	p := domain.Product{
		Name:          row.Name,
		Brand:         row.Brand,
		Category:      row.Category,
		PriceCents:    row.PriceCents,
		MRPCents:      row.MRPCents,
		ImageURL:      row.ImageURL,
		InStock:       row.InStock,
		StockQuantity: row.StockQuantity,
		Tags:          row.Tags,
	}
	if _, err := i.products.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func (i *CSVImporter) ensureBrand(ctx context.Context, name string) error {
	if i.seenBrands[name] {
		return nil
	}
	if _, err := i.brands.Upsert(ctx, domain.Brand{Name: name}); err != nil {
		return err
	}
	i.seenBrands[name] = true
	return nil
}

func (i *CSVImporter) ensureCategory(ctx context.Context, name string) error {
	if i.seenCategories[name] {
		return nil
	}
	if _, err := i.categories.Upsert(ctx, domain.Category{Name: name}); err != nil {
		return err
	}
	i.seenCategories[name] = true
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	name := pick(record, index, "name")
	brand := pick(record, index, "brand")
	category := pick(record, index, "category")

	if name == "" && brand == "" && category == "" {
		return nil, nil // blank line
	}
	if name == "" || brand == "" || category == "" {
		return nil, fmt.Errorf("invalid row: name, brand and category are required (got name=%q)", name)
	}

	price, err := parseCents(pick(record, index, "price_cents"))
	if err != nil {
		return nil, fmt.Errorf("invalid price for %q: %w", name, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("invalid price for %q: must be positive", name)
	}
	mrp, err := parseCents(pick(record, index, "mrp_cents"))
	if err != nil {
		return nil, fmt.Errorf("invalid mrp for %q: %w", name, err)
	}
	if mrp == 0 {
		mrp = price
	}

	stockQty := 0
	if s := pick(record, index, "stock_quantity"); s != "" {
		stockQty, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stock quantity for %q: %w", name, err)
		}
	}

	inStock := stockQty > 0
	if s := pick(record, index, "in_stock"); s != "" {
		inStock, err = strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid in_stock for %q: %w", name, err)
		}
	}

	var tags []string
	if s := pick(record, index, "tags"); s != "" {
		for _, tag := range strings.Split(s, "|") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	return &csvRow{
		Name:          name,
		Brand:         brand,
		Category:      category,
		PriceCents:    price,
		MRPCents:      mrp,
		ImageURL:      pick(record, index, "image_url"),
		InStock:       inStock,
		StockQuantity: stockQty,
		Tags:          tags,
	}, nil
}

func parseCents(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
