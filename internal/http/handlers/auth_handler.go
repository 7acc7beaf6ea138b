// Auth HTTP handlers.
//
// This file exposes the account endpoints:
//   - POST /api/auth/register  (create account, returns user + token)
//   - POST /api/auth/login     (credential login, sets the session cookie)
//   - GET  /api/auth/me        (gated; returns the authenticated user)
//
// The session token travels two ways: the JSON body (for clients storing it
// themselves) and an httpOnly "token" cookie (for the browser frontend).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/http/middleware"
	"github.com/aispire/go-career-backend/internal/services"
)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView is the JSON shape for user records in auth responses. The
// password hash never leaves the server.
type userView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func viewOf(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// setSessionCookie attaches the httpOnly token cookie. Secure is driven by
// the request scheme so local development over plain HTTP keeps working.
func (h *Handlers) setSessionCookie(c *gin.Context, token string) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, int(h.tokenTTL.Seconds()), "/", "", secure, true)
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, tok, err := h.authSvc.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUsername):
			failMessage(c, http.StatusBadRequest, "Username must be 3-30 characters (letters, digits, _ or -)")
		case errors.Is(err, services.ErrInvalidEmail):
			failMessage(c, http.StatusBadRequest, "A valid email address is required")
		case errors.Is(err, services.ErrWeakPassword):
			failMessage(c, http.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrEmailTaken):
			failMessage(c, http.StatusConflict, "Email already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			failMessage(c, http.StatusConflict, "Username already taken")
		default:
			failMessage(c, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	h.setSessionCookie(c, tok)
	ok(c, http.StatusCreated, gin.H{"user": viewOf(u), "token": tok})
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, tok, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			failMessage(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		failMessage(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	h.setSessionCookie(c, tok)
	ok(c, http.StatusOK, gin.H{"user": viewOf(u), "token": tok})
}

// Me handles GET /api/auth/me. The auth middleware already loaded the user.
func (h *Handlers) Me(c *gin.Context) {
	u := middleware.AuthUser(c)
	if u == nil {
		failMessage(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ok(c, http.StatusOK, gin.H{"user": viewOf(u)})
}
