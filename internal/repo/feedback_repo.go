// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback
// model.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving business rules (required fields, enum
// validation, notification side effects) to the services package.
//
// Error semantics:
//   - Missing records surface as ErrNotFound (aliasing gorm.ErrRecordNotFound).
//   - Other DB errors (connectivity, constraints) propagate unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateFeedback inserts fb, assigning a UUID primary key and a UTC creation
// timestamp. The caller is responsible for validation and defaulting.
func CreateFeedback(ctx context.Context, db *gorm.DB, fb *domain.Feedback) error {
	fb.ID = uuid.NewString()
	fb.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(fb).Error
}

// ListFeedback returns every feedback record, newest first. Filtering is a
// caller concern: the admin dashboard filters the full result set client-side.
func ListFeedback(ctx context.Context, db *gorm.DB) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// GetFeedback fetches a feedback record by ID, or ErrNotFound.
func GetFeedback(ctx context.Context, db *gorm.DB, id string) (*domain.Feedback, error) {
	var fb domain.Feedback
	if err := db.WithContext(ctx).Where("id = ?", id).First(&fb).Error; err != nil {
		return nil, err
	}
	return &fb, nil
}

// SaveFeedback persists every field of fb. Used by the service layer after
// mutating the moderation overlay inside a transaction.
func SaveFeedback(ctx context.Context, db *gorm.DB, fb *domain.Feedback) error {
	return db.WithContext(ctx).Save(fb).Error
}

// DeleteFeedback permanently removes a feedback record. There is no soft
// delete for feedback: the row is gone after this call. Returns ErrNotFound
// when no row matched.
func DeleteFeedback(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&domain.Feedback{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkEmailSent records that the admin notification for a feedback record was
// delivered at the given time. Callers treat failures as non-fatal.
func MarkEmailSent(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).Model(&domain.Feedback{}).
		Where("id = ?", id).
		Updates(map[string]any{"email_sent": true, "email_sent_at": at}).Error
}
