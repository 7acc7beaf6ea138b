package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/llm"
	"github.com/aispire/go-career-backend/internal/services"
)

func TestChat_Success(t *testing.T) {
	chat := &stubChatSvc{reply: "Try networking events."}
	h, r := newTestHandlers(nil, nil, chat)
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat",
		`{"message":"How do I find a mentor?","sessionId":"s-1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"reply":"Try networking events."`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if chat.gotSessionID != "s-1" || chat.gotMessage != "How do I find a mentor?" {
		t.Fatalf("request not forwarded: %q / %q", chat.gotSessionID, chat.gotMessage)
	}
}

func TestChat_BodyUserIDFallback(t *testing.T) {
	chat := &stubChatSvc{reply: "ok"}
	h, r := newTestHandlers(nil, nil, chat)
	r.POST("/api/chat", h.Chat)

	doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hi there","userId":"widget-7"}`)
	if chat.gotUserID == nil || *chat.gotUserID != "widget-7" {
		t.Fatalf("body userId not used: %v", chat.gotUserID)
	}
}

func TestChat_AuthIdentityWins(t *testing.T) {
	chat := &stubChatSvc{reply: "ok"}
	h, r := newTestHandlers(nil, nil, chat)
	r.POST("/api/chat", func(c *gin.Context) {
		c.Set("userID", "session-user")
		h.Chat(c)
	})

	doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hi there","userId":"widget-7"}`)
	if chat.gotUserID == nil || *chat.gotUserID != "session-user" {
		t.Fatalf("authenticated id must win: %v", chat.gotUserID)
	}
}

func TestChat_ErrorMappings(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrEmptyMessage, http.StatusBadRequest},
		{services.ErrMessageTooLong, http.StatusBadRequest},
		{llm.ErrInvalidCredentials, http.StatusUnauthorized},
		{llm.ErrRateLimited, http.StatusTooManyRequests},
		{llm.ErrUnavailable, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		chat := &stubChatSvc{sendErr: tc.err}
		h, r := newTestHandlers(nil, nil, chat)
		r.POST("/api/chat", h.Chat)

		w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hello"}`)
		if w.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Fatalf("%v: error body missing: %s", tc.err, w.Body.String())
		}
	}
}

func TestChat_ProviderFailureBodyIsGeneric(t *testing.T) {
	chat := &stubChatSvc{sendErr: llm.ErrUnavailable}
	h, r := newTestHandlers(nil, nil, chat)
	r.POST("/api/chat", h.Chat)

	w := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	if strings.Contains(w.Body.String(), "unavailable") {
		t.Fatalf("internal error text leaked: %s", w.Body.String())
	}
}

func TestChatHistory(t *testing.T) {
	chat := &stubChatSvc{history: []domain.ChatMessage{
		{ID: "m1", SessionID: "s-1", Sender: domain.SenderUser, Text: "hi"},
		{ID: "m2", SessionID: "s-1", Sender: domain.SenderBot, Text: "hello"},
	}}
	h, r := newTestHandlers(nil, nil, chat)
	r.GET("/api/chat/history/:sessionId", h.ChatHistory)

	w := doJSON(t, r, http.MethodGet, "/api/chat/history/s-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"messages"`) {
		t.Fatalf("missing messages wrapper: %s", w.Body.String())
	}
}

func TestChatHistory_EmptySession(t *testing.T) {
	h, r := newTestHandlers(nil, nil, &stubChatSvc{})
	r.GET("/api/chat/history/:sessionId", h.ChatHistory)

	w := doJSON(t, r, http.MethodGet, "/api/chat/history/nobody", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"messages":[]`) {
		t.Fatalf("empty history must be [], got: %s", w.Body.String())
	}
}
