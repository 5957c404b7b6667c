package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
)

type orderService interface {
	Checkout(ctx context.Context, identity, phoneNumber string) (*domain.Order, error)
	List(ctx context.Context, identity string) ([]domain.Order, error)
}

type orderHandlers struct {
	orders orderService
}

type checkoutRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (h *orderHandlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "invalid checkout body")
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), identityFrom(c), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, ordersvc.ErrEmptyCart) {
			respondError(c, http.StatusBadRequest, "cart is empty")
			return
		}
		respondError(c, http.StatusInternalServerError, "checkout failed")
		return
	}
	respond(c, http.StatusCreated, "order placed", order)
}

func (h *orderHandlers) list(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(c, http.StatusOK, "orders fetched", orders)
}
