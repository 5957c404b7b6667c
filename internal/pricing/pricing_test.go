package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func line(price int64, qty int) domain.CartLine {
	return domain.CartLine{
		Snapshot: domain.Snapshot{ProductID: "p", PriceCents: price},
		Quantity: qty,
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil, Policy{})
	assert.Equal(t, Totals{}, got)
}

func TestComputeTotalsSumsLines(t *testing.T) {
	got := ComputeTotals([]domain.CartLine{line(100, 2), line(50, 1)}, Policy{})
	assert.Equal(t, int64(250), got.SubtotalCents)
	assert.Equal(t, 3, got.ItemCount)
	assert.Equal(t, int64(250), got.TotalCents)
}

func TestComputeTotalsAppliesPolicy(t *testing.T) {
	policy := Policy{ShippingCents: 500, DiscountCents: 200, TaxCents: 100}
	got := ComputeTotals([]domain.CartLine{line(1000, 1)}, policy)
	assert.Equal(t, int64(1000), got.SubtotalCents)
	assert.Equal(t, int64(1000+500-200+100), got.TotalCents)
}

func TestComputeTotalsItemCountIsSummedQuantity(t *testing.T) {
	got := ComputeTotals([]domain.CartLine{line(10, 5)}, Policy{})
	assert.Equal(t, 5, got.ItemCount)
}
