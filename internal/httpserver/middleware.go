package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const identityCtxKey ctxKey = "identity"

type sessionLookup interface {
	Lookup(ctx context.Context, token string) (string, error)
}

// identityMiddleware resolves the bearer session token to a cart identity
// and stores it on the request context. Routes behind it never see an
// anonymous request.
func identityMiddleware(sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "session token required")
			return
		}
		identity, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(c.Request.Context(), identityCtxKey, identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func identityFrom(c *gin.Context) string {
	if v, ok := c.Request.Context().Value(identityCtxKey).(string); ok {
		return v
	}
	return ""
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
