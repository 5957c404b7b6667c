package domain

import "testing"

func TestCartDerivations(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{Snapshot: Snapshot{ProductID: "a", PriceCents: 100}, Quantity: 2},
		{Snapshot: Snapshot{ProductID: "b", PriceCents: 50}, Quantity: 1},
	}}

	if got := cart.TotalPriceCents(); got != 250 {
		t.Fatalf("TotalPriceCents = %d, want 250", got)
	}
	if got := cart.ItemCount(); got != 3 {
		t.Fatalf("ItemCount = %d, want 3", got)
	}
	if got := cart.LineCount(); got != 2 {
		t.Fatalf("LineCount = %d, want 2", got)
	}
}

func TestCartEmptyDerivations(t *testing.T) {
	var cart Cart
	if cart.TotalPriceCents() != 0 || cart.ItemCount() != 0 || cart.LineCount() != 0 {
		t.Fatalf("empty cart must derive zeros")
	}
}

func TestFindLine(t *testing.T) {
	cart := Cart{Lines: []CartLine{
		{Snapshot: Snapshot{ProductID: "a"}},
		{Snapshot: Snapshot{ProductID: "b"}},
	}}
	if idx := cart.FindLine("b"); idx != 1 {
		t.Fatalf("FindLine(b) = %d, want 1", idx)
	}
	if idx := cart.FindLine("zzz"); idx != -1 {
		t.Fatalf("FindLine(zzz) = %d, want -1", idx)
	}
}
