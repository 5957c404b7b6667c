package domain

import "time"

type Cart struct {
	ID        string     `json:"id"`
	Identity  string     `json:"-"`
	Lines     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartLine struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"product"`
	Quantity int      `json:"quantity"`
}

// TotalPriceCents sums price times quantity over all lines. The total is
// never stored; it is always recomputed from the lines so it cannot drift.
func (c *Cart) TotalPriceCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Snapshot.PriceCents * int64(line.Quantity)
	}
	return total
}

// ItemCount is the summed quantity across lines. This is the canonical
// item count; callers that want a one-per-line badge use LineCount.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// LineCount is the number of distinct products in the cart.
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].Snapshot.ProductID == productID {
			return i
		}
	}
	return -1
}
