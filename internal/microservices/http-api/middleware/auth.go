package middleware

import (
	"errors"
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxClaims = "claims"
	ctxUserID = "userID"
	ctxActor  = "actor"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests
// It checks for the presence and validity of a JWT token in the Authorization header
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A malformed or invalid token is still
// rejected rather than silently downgraded to anonymous.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// RequireStaff must run after AuthMiddleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil || !actor.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff only"})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated caller, or nil for anonymous requests.
func ActorFrom(c *gin.Context) *policy.Actor {
	v, ok := c.Get(ctxActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*policy.Actor)
	return actor
}

// UserIDFrom returns the authenticated caller's id or "".
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func authenticate(c *gin.Context, validator TokenValidator, authHeader string) bool {
	// format: "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return false
	}

	claims, err := validator.ValidateToken(parts[1])
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, service.ErrExpiredToken) {
			msg = "token has expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return false
	}

	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxActor, claims.Actor())
	return true
}
