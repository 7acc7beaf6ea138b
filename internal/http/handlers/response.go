// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by all endpoints. The API
// speaks the frontend's established wire shapes rather than a uniform
// envelope: validation failures use {"error": "..."} and auth/moderation
// outcomes use {"message": "..."}, matching what the client renders. The
// helpers centralize those shapes and guarantee that 5xx responses are logged
// with request context.
//
// Example error responses:
//
//	HTTP/1.1 400 Bad Request
//	{ "error": "Name, email and message are required" }
//
//	HTTP/1.1 401 Unauthorized
//	{ "message": "Not authenticated" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/http/middleware"
)

// failError aborts the request with {"error": msg}. Used for validation and
// relay failures where the client surfaces the text next to a form or chat
// widget.
func failError(c *gin.Context, status int, msg string) {
	logServerError(c, status, msg)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failMessage aborts the request with {"message": msg}. Used for auth and
// moderation outcomes.
func failMessage(c *gin.Context, status int, msg string) {
	logServerError(c, status, msg)
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// FailMessage is the exported variant of failMessage, for router-level
// fallbacks (NoRoute / NoMethod).
func FailMessage(c *gin.Context, status int, msg string) { failMessage(c, status, msg) }

// logServerError logs 5xx responses with the request-scoped logger so every
// server-side failure leaves a correlated trace.
func logServerError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
}

// ok writes a success JSON response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
