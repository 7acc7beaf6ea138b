// Feedback HTTP handlers.
//
// This file exposes the REST endpoints of the feedback lifecycle:
//   - POST   /api/feedback          (public submission)
//   - GET    /api/feedback          (admin list, newest first)
//   - PATCH  /api/feedback/:id      (admin moderation update)
//   - DELETE /api/feedback/:id      (admin permanent delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate service errors into the fixed HTTP contract the
// frontend expects. This file also declares the service contracts and the
// Handlers aggregate shared by all endpoint files.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/http/middleware"
	"github.com/aispire/go-career-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// FeedbackService defines the feedback lifecycle operations the HTTP layer
// consumes. Implementations must be safe for concurrent use and honor the
// provided context.
type FeedbackService interface {
	Create(ctx context.Context, in services.CreateFeedbackInput) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
	Update(ctx context.Context, id string, in services.UpdateFeedbackInput) (*domain.Feedback, error)
	Delete(ctx context.Context, id string) error
}

// AuthService defines account operations consumed by the auth endpoints.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// ChatService defines the assistant relay operations consumed by the chat
// endpoints.
type ChatService interface {
	Send(ctx context.Context, userID *string, sessionID, message string) (string, error)
	History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for auth, feedback, and chat. It
// depends on service interfaces so transport concerns stay separate from
// business logic.
type Handlers struct {
	authSvc  AuthService
	fbSvc    FeedbackService
	chatSvc  ChatService
	tokenTTL time.Duration
}

// New constructs a Handlers instance bound to the given services. tokenTTL
// controls the lifetime of the session cookie set at login.
func New(authSvc AuthService, fbSvc FeedbackService, chatSvc ChatService, tokenTTL time.Duration) *Handlers {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handlers{authSvc: authSvc, fbSvc: fbSvc, chatSvc: chatSvc, tokenTTL: tokenTTL}
}

//
// DTOs
//

// CreateFeedbackRequest is the JSON payload of the public submission form.
type CreateFeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Type    string `json:"type"`
	Message string `json:"message"`
	PageURL string `json:"pageUrl"`
}

// UpdateFeedbackRequest is the admin moderation payload. Only these three
// fields are editable; anything else in the body is ignored.
type UpdateFeedbackRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AdminNotes *string `json:"adminNotes"`
}

// CreateFeedback handles POST /api/feedback.
//
// The endpoint is public. A signed-in submitter (optional auth) gets the
// record linked to their account; request metadata (user agent, client IP)
// is captured for the admin view. Success is always 201 — the notification
// side effect can never fail the submission.
func (h *Handlers) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failError(c, http.StatusBadRequest, "Name, email and message are required")
		return
	}

	in := services.CreateFeedbackInput{
		Name:      req.Name,
		Email:     req.Email,
		Type:      req.Type,
		Message:   req.Message,
		PageURL:   req.PageURL,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
	if uid := middleware.UserIDFrom(c); uid != "" {
		in.UserID = &uid
	}
	if key, ok := middleware.SubmitKey(c); ok {
		in.ClientKey = key
	}

	if _, err := h.fbSvc.Create(c.Request.Context(), in); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			failError(c, http.StatusBadRequest, "Name, email and message are required")
		case errors.Is(err, services.ErrInvalidEmail):
			failError(c, http.StatusBadRequest, "A valid email address is required")
		case errors.Is(err, services.ErrMessageTooShort):
			failError(c, http.StatusBadRequest, "Message must be at least 5 characters")
		case errors.Is(err, services.ErrInvalidType):
			failError(c, http.StatusBadRequest, "Invalid feedback type")
		default:
			failError(c, http.StatusInternalServerError, "Failed to submit feedback")
		}
		return
	}

	ok(c, http.StatusCreated, gin.H{"message": "Feedback submitted successfully"})
}

// ListFeedback handles GET /api/feedback (admin).
//
// Returns the full set, newest first, as a bare JSON array. Filtering and
// searching happen client-side in the dashboard.
func (h *Handlers) ListFeedback(c *gin.Context) {
	items, err := h.fbSvc.List(c.Request.Context())
	if err != nil {
		failError(c, http.StatusInternalServerError, "Failed to load feedback")
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	ok(c, http.StatusOK, items)
}

// UpdateFeedback handles PATCH /api/feedback/:id (admin).
func (h *Handlers) UpdateFeedback(c *gin.Context) {
	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fb, err := h.fbSvc.Update(c.Request.Context(), c.Param("id"), services.UpdateFeedbackInput{
		Status:     req.Status,
		Priority:   req.Priority,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeedbackNotFound):
			failMessage(c, http.StatusNotFound, "Feedback not found")
		case errors.Is(err, services.ErrInvalidStatus):
			failError(c, http.StatusBadRequest, "Invalid status value")
		case errors.Is(err, services.ErrInvalidPriority):
			failError(c, http.StatusBadRequest, "Invalid priority value")
		case errors.Is(err, services.ErrNotesTooLong):
			failError(c, http.StatusBadRequest, "Admin notes are too long")
		default:
			failError(c, http.StatusInternalServerError, "Failed to update feedback")
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"feedback": fb})
}

// DeleteFeedback handles DELETE /api/feedback/:id (admin). The delete is
// permanent; there is no undo.
func (h *Handlers) DeleteFeedback(c *gin.Context) {
	if err := h.fbSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrFeedbackNotFound) {
			failMessage(c, http.StatusNotFound, "Feedback not found")
			return
		}
		failError(c, http.StatusInternalServerError, "Failed to delete feedback")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
