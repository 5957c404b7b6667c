package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrProductNotFound indicates a cart operation referenced a product
	// the catalog cannot resolve.
	ErrProductNotFound = errors.New("product not found")

	// ErrOutOfStock indicates an add was rejected because the product is
	// not available. The UI disables the control, but the server rejects
	// regardless.
	ErrOutOfStock = errors.New("product out of stock")
)
