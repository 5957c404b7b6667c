package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type sessionIssuer interface {
	Issue(ctx context.Context) (token, identity string, err error)
	TTLSeconds() int
}

type sessionHandlers struct {
	sessions sessionIssuer
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

func (h *sessionHandlers) create(c *gin.Context) {
	token, _, err := h.sessions.Issue(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create session")
		return
	}
	respond(c, http.StatusCreated, "session created", sessionResponse{
		Token:     token,
		ExpiresIn: h.sessions.TTLSeconds(),
	})
}
