// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the session gate. Authenticate() resolves the caller's
// identity from a Bearer header or the "token" cookie, verifies the JWT, and
// loads the account from the database so role checks always see the current
// role rather than a stale claim. RequireRoles() layers role-based access on
// top, and OptionalAuthenticate() attaches an identity when one is presented
// without ever rejecting the request.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
)

// Context keys set by the authentication middleware.
const (
	// ctxKeyUserID holds the authenticated user's id (string).
	ctxKeyUserID = "userID"
	// ctxKeyAuthUser holds the loaded *domain.User.
	ctxKeyAuthUser = "authUser"
)

// TokenVerifier verifies a session token and returns the subject user id.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserLoader loads a user by id. The services.AuthService satisfies this via
// a small adapter in the router.
type UserLoader interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthUser returns the authenticated user attached by Authenticate, or nil.
func AuthUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxKeyAuthUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// UserIDFrom returns the authenticated user id, or "" when anonymous.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// extractToken pulls the session token from the Authorization header
// ("Bearer <jwt>") or, failing that, the "token" cookie set at login.
func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if parts := strings.SplitN(h, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if tok, err := c.Cookie("token"); err == nil {
		return tok
	}
	return ""
}

// Authenticate enforces a valid session.
//
// Responses follow the API's fixed contract:
//   - no token presented:      401 {"message": "Not authenticated"}
//   - bad or expired token:    401 {"message": "Invalid or expired token"}
//   - subject no longer exists or is deactivated:
//     401 {"message": "User not found"}
//
// On success the user id and the loaded *domain.User are stored in the Gin
// context for handlers and RequireRoles.
func Authenticate(tokens TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := extractToken(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}

		uid, err := tokens.Verify(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		u, err := users.GetUser(c.Request.Context(), uid)
		if err != nil || u == nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(ctxKeyUserID, u.ID)
		c.Set(ctxKeyAuthUser, u)
		c.Next()
	}
}

// OptionalAuthenticate attaches an identity when the request carries a valid
// token and silently continues otherwise. Used on the public feedback
// endpoint so signed-in submitters get linked to their account.
func OptionalAuthenticate(tokens TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := extractToken(c); tok != "" {
			if uid, err := tokens.Verify(tok); err == nil {
				if u, err := users.GetUser(c.Request.Context(), uid); err == nil && u != nil && u.IsActive {
					c.Set(ctxKeyUserID, u.ID)
					c.Set(ctxKeyAuthUser, u)
				}
			}
		}
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated user's
// role is one of the given roles. It must run after Authenticate.
//
// A missing identity yields 401; a present identity with the wrong role
// yields 403 {"message": "Forbidden"}.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		u := AuthUser(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}
		if _, ok := allowed[u.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
