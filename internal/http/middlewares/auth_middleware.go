package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserResolver interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserResolver
}

func NewAuthMiddleware(jwt TokenVerifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// RequireAuth is the sole authorization checkpoint. Every failure mode
// answers with the same body so callers learn nothing about which
// check tripped. On success the resolved user rides on the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthenticated(c)
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		u, err := m.users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		SetCurrentUser(c, u)

		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Please authenticate.",
	})
}
