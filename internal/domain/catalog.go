package domain

import "time"

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products        []Product `json:"products"`
	TotalProducts   int       `json:"totalProducts"`
	CurrentPage     int       `json:"currentPage"`
	TotalPages      int       `json:"totalPages"`
	HasNextPage     bool      `json:"hasNextPage"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
}
