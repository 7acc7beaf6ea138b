// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs the feedback
// lifecycle: public creation with notification side effects, the admin list
// view, moderation updates (status/priority/notes), and permanent deletion.
// Service-level errors (ErrMissingFields, ErrInvalidStatus,
// ErrFeedbackNotFound, ...) are returned for predictable cases so handlers
// can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/repo"
)

// minMessageRunes is the storage-level floor for feedback messages. The
// submission form enforces a stricter 10-character minimum client-side.
const minMessageRunes = 5

// FeedbackNotifier is the side-effect contract invoked after a feedback
// record is created. Implementations must be best-effort: they report whether
// the admin alert went out and never panic.
type FeedbackNotifier interface {
	FeedbackReceived(fb *domain.Feedback) (adminSent bool)
}

// CreateFeedbackInput carries the submitter-provided fields for a new record
// plus request metadata captured by the transport layer.
type CreateFeedbackInput struct {
	Name    string
	Email   string
	Type    string
	Message string
	PageURL string

	UserID    *string // set when the caller presented a valid session token
	UserAgent string
	IPAddress string

	// ClientKey is the optional Idempotency-Key supplied by the frontend to
	// absorb double-clicks and retries. Empty disables deduplication.
	ClientKey string
}

// UpdateFeedbackInput is the admin moderation payload. Nil fields are left
// unchanged; the submission fields themselves are never editable.
type UpdateFeedbackInput struct {
	Status     *string
	Priority   *string
	AdminNotes *string
}

// FeedbackService implements the use-cases around feedback records. It
// validates inputs, persists through the repo package, and fires the
// notification side effect after creation.
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	DB *gorm.DB

	// Notifier delivers the post-creation emails. Nil disables notifications.
	Notifier FeedbackNotifier

	// SubmitTTL is the dedupe window for repeated client keys.
	SubmitTTL time.Duration

	// AsyncNotify detaches notification delivery from the request lifecycle.
	// Tests set it to false for determinism.
	AsyncNotify bool
}

// NewFeedbackService constructs a FeedbackService with production defaults.
func NewFeedbackService(db *gorm.DB, notifier FeedbackNotifier, submitTTL time.Duration) *FeedbackService {
	if submitTTL <= 0 {
		submitTTL = 24 * time.Hour
	}
	return &FeedbackService{
		DB:          db,
		Notifier:    notifier,
		SubmitTTL:   submitTTL,
		AsyncNotify: true,
	}
}

// Create validates and persists a new feedback record.
//
// Semantics:
//   - name, email, and message are required; otherwise ErrMissingFields.
//   - email must look like an address (ErrInvalidEmail) and is stored lowercase.
//   - message must be at least minMessageRunes runes (ErrMessageTooShort).
//   - an omitted type defaults to "suggestion"; an unknown one is ErrInvalidType.
//   - status and priority always start at open/medium.
//   - a repeated ClientKey within the TTL window returns the original record
//     without inserting a second row or re-firing notifications.
//
// The notification side effect can never fail the creation: it runs after the
// row is committed and only logs its own failures.
func (s *FeedbackService) Create(ctx context.Context, in CreateFeedbackInput) (*domain.Feedback, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	message := strings.TrimSpace(in.Message)

	if name == "" || email == "" || message == "" {
		return nil, ErrMissingFields
	}
	if !domain.EmailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(message) < minMessageRunes {
		return nil, ErrMessageTooShort
	}

	fbType := strings.TrimSpace(in.Type)
	if fbType == "" {
		fbType = domain.TypeSuggestion
	}
	if !domain.ValidFeedbackType(fbType) {
		return nil, ErrInvalidType
	}

	// Replay check: a known (client key, email) pair resolves to the record
	// created the first time around.
	if in.ClientKey != "" {
		if rec, err := repo.GetSubmission(ctx, s.DB, in.ClientKey, email, time.Now().UTC()); err == nil {
			if fb, err := repo.GetFeedback(ctx, s.DB, rec.FeedbackID); err == nil {
				return fb, nil
			}
		}
	}

	fb := &domain.Feedback{
		Name:      name,
		Email:     email,
		Type:      fbType,
		Message:   message,
		PageURL:   strings.TrimSpace(in.PageURL),
		UserID:    in.UserID,
		Status:    domain.StatusOpen,
		Priority:  domain.PriorityMedium,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
	}
	if err := repo.CreateFeedback(ctx, s.DB, fb); err != nil {
		return nil, err
	}

	if in.ClientKey != "" {
		// Losing the dedupe record only weakens retry protection; the
		// feedback row is already committed.
		if _, err := repo.CreateSubmission(ctx, s.DB, in.ClientKey, email, fb.ID, s.SubmitTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Err(err).Str("feedback_id", fb.ID).Msg("submission dedupe record not saved")
		}
	}

	s.dispatchNotification(fb)
	return fb, nil
}

// dispatchNotification fires the post-creation emails and stamps the record
// when the admin alert went out. Failures never propagate.
func (s *FeedbackService) dispatchNotification(fb *domain.Feedback) {
	if s.Notifier == nil {
		return
	}
	run := func() {
		snapshot := *fb
		if adminSent := s.Notifier.FeedbackReceived(&snapshot); adminSent {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := repo.MarkEmailSent(ctx, s.DB, fb.ID, time.Now().UTC()); err != nil {
				log.Warn().Err(err).Str("feedback_id", fb.ID).Msg("email_sent stamp not saved")
			}
		}
	}
	if s.AsyncNotify {
		go run()
		return
	}
	run()
}

// List returns every feedback record, newest first. Filtering by type,
// status, or free text is a dashboard concern performed on the full set.
func (s *FeedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return repo.ListFeedback(ctx, s.DB)
}

// Get returns one feedback record or ErrFeedbackNotFound.
func (s *FeedbackService) Get(ctx context.Context, id string) (*domain.Feedback, error) {
	fb, err := repo.GetFeedback(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return fb, nil
}

// Update applies a moderation change to an existing record. Only status,
// priority, and admin notes are editable; any status may move to any other
// enumerated status and priority is independently settable. The read and
// write run inside one transaction so concurrent edits resolve to
// last-writer-wins at the row level.
func (s *FeedbackService) Update(ctx context.Context, id string, in UpdateFeedbackInput) (*domain.Feedback, error) {
	if in.Status != nil && !domain.ValidFeedbackStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.Priority != nil && !domain.ValidFeedbackPriority(*in.Priority) {
		return nil, ErrInvalidPriority
	}
	if in.AdminNotes != nil && utf8.RuneCountInString(*in.AdminNotes) > domain.MaxAdminNotesLen {
		return nil, ErrNotesTooLong
	}

	var out *domain.Feedback
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fb, err := repo.GetFeedback(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrFeedbackNotFound
			}
			return err
		}
		if in.Status != nil {
			fb.Status = *in.Status
		}
		if in.Priority != nil {
			fb.Priority = *in.Priority
		}
		if in.AdminNotes != nil {
			fb.AdminNotes = *in.AdminNotes
		}
		if err := repo.SaveFeedback(ctx, tx, fb); err != nil {
			return err
		}
		out = fb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete permanently removes a feedback record. There is no soft delete or
// undo; ErrFeedbackNotFound is returned when the id does not exist.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteFeedback(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return err
	}
	return nil
}
