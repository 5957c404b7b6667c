package httpserver

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// envelope is the response shape every endpoint uses.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: status < 400, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// cartPayload is the read model handed to the UI layer: the lines plus
// every derived figure, so clients never compute totals themselves.
type cartPayload struct {
	ID              string            `json:"id,omitempty"`
	Items           []domain.CartLine `json:"items"`
	TotalItems      int               `json:"totalItems"`
	TotalLines      int               `json:"totalLines"`
	TotalPriceCents int64             `json:"totalPriceCents"`
	Totals          pricing.Totals    `json:"totals"`
}

func toCartPayload(cart *domain.Cart, policy pricing.Policy) cartPayload {
	items := cart.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartPayload{
		ID:              cart.ID,
		Items:           items,
		TotalItems:      cart.ItemCount(),
		TotalLines:      cart.LineCount(),
		TotalPriceCents: cart.TotalPriceCents(),
		Totals:          pricing.ComputeTotals(cart.Lines, policy),
	}
}
