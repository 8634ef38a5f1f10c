package middleware

import (
	"strings"

	"github.com/alchemorsel/foodgram/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const viewerKey = "viewer_id"

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// OptionalAuth sets the viewer when the request carries a valid bearer token.
// A malformed or invalid token is rejected with 401 rather than ignored.
func (m *Middleware) OptionalAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.Error(errors.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		userID, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			m.logger.Debug("Rejected bearer token", zap.Error(err))
			c.Error(errors.NewUnauthorizedError("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(viewerKey, userID)
		c.Next()
	}
}

// RequireAuth rejects requests without a viewer
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ViewerID(c) == nil {
			c.Error(errors.NewUnauthorizedError(""))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ViewerID returns the authenticated user, or nil for anonymous requests
func ViewerID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// SetViewer marks the request as made by userID
func SetViewer(c *gin.Context, userID uuid.UUID) {
	c.Set(viewerKey, userID)
}
