package domain

import "time"

// Order is an immutable capture of a cart at checkout time. Unlike the
// cart, its totals are stored: they record what the customer was charged,
// not a derivable view.
type Order struct {
	ID            string      `json:"id"`
	Identity      string      `json:"-"`
	PhoneNumber   string      `json:"phoneNumber"`
	Lines         []OrderLine `json:"items"`
	SubtotalCents int64       `json:"subtotalCents"`
	ShippingCents int64       `json:"shippingCents"`
	DiscountCents int64       `json:"discountCents"`
	TaxCents      int64       `json:"taxCents"`
	TotalCents    int64       `json:"totalCents"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type OrderLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}
