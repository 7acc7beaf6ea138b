// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatMessage
// model. Chat history is append-only: there are no update or delete paths.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/domain"
)

// AppendChatMessage inserts one conversation turn for a session.
func AppendChatMessage(ctx context.Context, db *gorm.DB, userID *string, sessionID, sender, text string) (*domain.ChatMessage, error) {
	m := &domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// ListChatMessages returns a session's turns ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListChatMessages(ctx context.Context, db *gorm.DB, sessionID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
