// Chat HTTP handlers.
//
// This file exposes the assistant relay:
//   - POST /api/chat                        (relay a message, get a reply)
//   - GET  /api/chat/history/:sessionId     (session transcript)
//
// The relay is public but rate limited upstream. Provider failures are
// mapped to client-facing statuses; raw provider payloads are only ever
// logged, never forwarded.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/http/middleware"
	"github.com/aispire/go-career-backend/internal/llm"
	"github.com/aispire/go-career-backend/internal/services"
)

// ChatRequest is the relay payload. UserID is a fallback identity for
// anonymous widget sessions; an authenticated caller's id wins.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// Chat handles POST /api/chat.
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failError(c, http.StatusBadRequest, "Message is required")
		return
	}

	var uid *string
	if id := middleware.UserIDFrom(c); id != "" {
		uid = &id
	} else if req.UserID != "" {
		uid = &req.UserID
	}

	reply, err := h.chatSvc.Send(c.Request.Context(), uid, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			failError(c, http.StatusBadRequest, "Message is required")
		case errors.Is(err, services.ErrMessageTooLong):
			failError(c, http.StatusBadRequest, "Message is too long")
		case errors.Is(err, llm.ErrInvalidCredentials):
			failError(c, http.StatusUnauthorized, "Assistant credentials rejected")
		case errors.Is(err, llm.ErrRateLimited):
			failError(c, http.StatusTooManyRequests, "Too many requests, please try again later")
		default:
			middleware.LoggerFrom(c).Error().Err(err).Msg("chat relay failed")
			failError(c, http.StatusInternalServerError, "Failed to get a response, please try again")
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"reply": reply})
}

// ChatHistory handles GET /api/chat/history/:sessionId. An unknown session
// yields an empty list.
func (h *Handlers) ChatHistory(c *gin.Context) {
	msgs, err := h.chatSvc.History(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		failError(c, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	ok(c, http.StatusOK, gin.H{"messages": msgs})
}
