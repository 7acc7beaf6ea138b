package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/llm"
)

// stubCompleter returns a canned reply or error and records the prompts.
type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (s *stubCompleter) Complete(_ context.Context, systemPrompt, userMessage string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = userMessage
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestChatSend_EmptyMessage(t *testing.T) {
	svc := NewChatService(newTestDB(t), &stubCompleter{reply: "hi"})

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Send(context.Background(), nil, "", msg); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("message %q: expected ErrEmptyMessage, got %v", msg, err)
		}
	}
}

func TestChatSend_TooLong(t *testing.T) {
	svc := NewChatService(newTestDB(t), &stubCompleter{reply: "hi"})

	msg := strings.Repeat("a", MaxChatMessageRunes+1)
	if _, err := svc.Send(context.Background(), nil, "", msg); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestChatSend_RelaysWithPersona(t *testing.T) {
	stub := &stubCompleter{reply: "Start with an internship."}
	svc := NewChatService(newTestDB(t), stub)

	reply, err := svc.Send(context.Background(), nil, "", "  How do I break into ML?  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "Start with an internship." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if stub.lastUser != "How do I break into ML?" {
		t.Fatalf("message not trimmed before relay: %q", stub.lastUser)
	}
	if !strings.Contains(stub.lastSystem, "career") {
		t.Fatalf("system prompt missing persona: %q", stub.lastSystem)
	}
}

func TestChatSend_ProviderErrorsPassThrough(t *testing.T) {
	for _, want := range []error{llm.ErrInvalidCredentials, llm.ErrRateLimited, llm.ErrUnavailable} {
		svc := NewChatService(newTestDB(t), &stubCompleter{err: want})
		if _, err := svc.Send(context.Background(), nil, "", "hello there"); !errors.Is(err, want) {
			t.Fatalf("expected %v to pass through, got %v", want, err)
		}
	}
}

func TestChatSend_RecordsTranscript(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubCompleter{reply: "Sure."})
	uid := "user-1"

	if _, err := svc.Send(context.Background(), &uid, "sess-1", "What pays more, SRE or data?"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs, err := svc.History(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 transcript rows, got %d", len(msgs))
	}
	if msgs[0].Sender != domain.SenderUser || msgs[1].Sender != domain.SenderBot {
		t.Fatalf("unexpected sender order: %s, %s", msgs[0].Sender, msgs[1].Sender)
	}
	if msgs[0].UserID == nil || *msgs[0].UserID != uid {
		t.Fatalf("user id not attached to transcript")
	}
}

func TestChatSend_NoSessionNoTranscript(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubCompleter{reply: "Sure."})

	if _, err := svc.Send(context.Background(), nil, "   ", "hello there"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	var count int64
	if err := db.Model(&domain.ChatMessage{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty transcript, got %d rows", count)
	}
}

func TestChatHistory_UnknownSession(t *testing.T) {
	svc := NewChatService(newTestDB(t), &stubCompleter{})

	msgs, err := svc.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty history, got %d", len(msgs))
	}
}
