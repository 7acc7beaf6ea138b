// Package services – ChatService
//
// This file implements the assistant relay: it validates the user's message,
// forwards it to the completion provider with the fixed career-advisor
// persona, and records the exchange when the caller supplied a session id.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/repo"
)

// MaxChatMessageRunes caps a single chat message before it is relayed.
const MaxChatMessageRunes = 4000

// systemPrompt pins the assistant persona for every relayed completion.
const systemPrompt = "You are AIspire's career assistant. You help people " +
	"navigate careers in technology and AI: study paths, skill building, " +
	"certifications, applications, and interviews. Be concise, practical, " +
	"and encouraging. If a question is outside careers and professional " +
	"development, say so briefly and steer back to career topics."

// Completer is the completion-provider contract the chat service relies on.
// The llm package provides the production implementation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ChatService relays chat messages to the completion provider and keeps a
// per-session transcript.
type ChatService struct {
	DB        *gorm.DB
	Completer Completer
}

// NewChatService wires a ChatService.
func NewChatService(db *gorm.DB, completer Completer) *ChatService {
	return &ChatService{DB: db, Completer: completer}
}

// Send relays a message and returns the assistant's reply.
//
// The message is trimmed first; an empty result is ErrEmptyMessage and one
// over MaxChatMessageRunes is ErrMessageTooLong. Provider failures pass
// through as the llm package's sentinel errors for the handler to map.
// When sessionID is non-empty both sides of the exchange are appended to the
// transcript best-effort: a failed write never fails the reply.
func (s *ChatService) Send(ctx context.Context, userID *string, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxChatMessageRunes {
		return "", ErrMessageTooLong
	}

	reply, err := s.Completer.Complete(ctx, systemPrompt, message)
	if err != nil {
		return "", err
	}

	if sessionID = strings.TrimSpace(sessionID); sessionID != "" {
		if _, err := repo.AppendChatMessage(ctx, s.DB, userID, sessionID, domain.SenderUser, message); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("user chat message not recorded")
		}
		if _, err := repo.AppendChatMessage(ctx, s.DB, userID, sessionID, domain.SenderBot, reply); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("bot chat message not recorded")
		}
	}
	return reply, nil
}

// History returns a session's transcript in chronological order. An unknown
// session id yields an empty slice, not an error.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return repo.ListChatMessages(ctx, s.DB, sessionID)
}
