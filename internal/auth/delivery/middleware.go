package delivery

import (
	"net/http"
	"strings"

	"agristock-backend/internal/app"
	"agristock-backend/internal/auth/usecase"
	"agristock-backend/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionKey  = "session"
	instanceKey = "instance"
)

func AuthMiddleware(authUsecase usecase.AuthUsecase, registry *app.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}
		if !authenticate(c, authUsecase, registry) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware lets requests without an Authorization header through
// unauthenticated, but still rejects malformed or invalid tokens.
func OptionalAuthMiddleware(authUsecase usecase.AuthUsecase, registry *app.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" && !authenticate(c, authUsecase, registry) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, authUsecase usecase.AuthUsecase, registry *app.Registry) bool {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return false
	}

	s, err := authUsecase.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		c.Abort()
		return false
	}

	c.Set(sessionKey, s)
	c.Set(instanceKey, registry.Open(s))
	c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
	return true
}

// SessionFrom returns the session set by the auth middleware.
func SessionFrom(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}

// InstanceFrom returns the app instance set by the auth middleware.
func InstanceFrom(c *gin.Context) (*app.Instance, bool) {
	v, ok := c.Get(instanceKey)
	if !ok {
		return nil, false
	}
	inst, ok := v.(*app.Instance)
	return inst, ok
}
