package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type cartStore interface {
	Get(ctx context.Context, identity string) (*domain.Cart, error)
	AddOrIncrement(ctx context.Context, identity, productID string, delta int) error
	SetQuantity(ctx context.Context, identity, productID string, quantity int) error
	Remove(ctx context.Context, identity, productID string) error
	Clear(ctx context.Context, identity string) error
}

type cartHandlers struct {
	store  cartStore
	policy pricing.Policy
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	// Quantity is a delta to merge, not an absolute value. Decrement
	// buttons send negative values.
	Quantity int `json:"quantity"`
}

type setQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *cartHandlers) get(c *gin.Context) {
	identity := identityFrom(c)
	cart, err := h.store.Get(c.Request.Context(), identity)
	countCartOp("get", err)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load cart")
		return
	}
	respond(c, http.StatusOK, "cart fetched", toCartPayload(cart, h.policy))
}

func (h *cartHandlers) add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId and quantity are required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	identity := identityFrom(c)
	err := h.store.AddOrIncrement(c.Request.Context(), identity, req.ProductID, req.Quantity)
	countCartOp("add", err)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondCurrent(c, identity, "item added to cart")
}

func (h *cartHandlers) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId is required")
		return
	}

	identity := identityFrom(c)
	err := h.store.SetQuantity(c.Request.Context(), identity, req.ProductID, req.Quantity)
	countCartOp("set", err)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondCurrent(c, identity, "quantity updated")
}

func (h *cartHandlers) remove(c *gin.Context) {
	productID := c.Param("productId")
	identity := identityFrom(c)
	err := h.store.Remove(c.Request.Context(), identity, productID)
	countCartOp("remove", err)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondCurrent(c, identity, "item removed from cart")
}

func (h *cartHandlers) clearAll(c *gin.Context) {
	identity := identityFrom(c)
	err := h.store.Clear(c.Request.Context(), identity)
	countCartOp("clear", err)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondCurrent(c, identity, "cart cleared")
}

// respondCurrent returns the refreshed canonical cart after a mutation so
// clients refetching get the same body either way.
func (h *cartHandlers) respondCurrent(c *gin.Context, identity, message string) {
	cart, err := h.store.Get(c.Request.Context(), identity)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load cart")
		return
	}
	respond(c, http.StatusOK, message, toCartPayload(cart, h.policy))
}

func (h *cartHandlers) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrOutOfStock):
		respondError(c, http.StatusConflict, "product out of stock")
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "cart line not found")
	default:
		respondError(c, http.StatusInternalServerError, "cart operation failed")
	}
}
