// Package pricing turns cart lines into order totals. Everything here is
// pure: no storage, no clocks, no I/O.
package pricing

import "storefront/internal/domain"

// Policy holds the adjustment figures applied on top of the subtotal.
// Current business policy is free shipping, no discount, tax included, so
// all three default to zero; they are configuration, not hardcoded logic,
// because they are the most likely point of future change.
type Policy struct {
	ShippingCents int64
	DiscountCents int64
	TaxCents      int64
}

type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ItemCount     int   `json:"itemCount"`
	ShippingCents int64 `json:"shippingCents"`
	DiscountCents int64 `json:"discountCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// ComputeTotals derives display figures from cart lines.
// ItemCount is the summed quantity, not the distinct line count.
func ComputeTotals(lines []domain.CartLine, policy Policy) Totals {
	t := Totals{
		ShippingCents: policy.ShippingCents,
		DiscountCents: policy.DiscountCents,
		TaxCents:      policy.TaxCents,
	}
	for _, line := range lines {
		t.SubtotalCents += line.Snapshot.PriceCents * int64(line.Quantity)
		t.ItemCount += line.Quantity
	}
	t.TotalCents = t.SubtotalCents + t.ShippingCents - t.DiscountCents + t.TaxCents
	return t
}
