package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/services"
)

//
// Service stubs
//

type stubFeedbackSvc struct {
	createIn  *services.CreateFeedbackInput
	createErr error
	listOut   []domain.Feedback
	listErr   error
	updateOut *domain.Feedback
	updateErr error
	deleteErr error
}

func (s *stubFeedbackSvc) Create(_ context.Context, in services.CreateFeedbackInput) (*domain.Feedback, error) {
	s.createIn = &in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Feedback{ID: "fb-1"}, nil
}

func (s *stubFeedbackSvc) List(context.Context) ([]domain.Feedback, error) {
	return s.listOut, s.listErr
}

func (s *stubFeedbackSvc) Update(_ context.Context, id string, _ services.UpdateFeedbackInput) (*domain.Feedback, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updateOut != nil {
		return s.updateOut, nil
	}
	return &domain.Feedback{ID: id}, nil
}

func (s *stubFeedbackSvc) Delete(context.Context, string) error { return s.deleteErr }

type stubAuthSvc struct {
	user     *domain.User
	token    string
	regErr   error
	loginErr error
	getErr   error
}

func (s *stubAuthSvc) Register(context.Context, services.RegisterInput) (*domain.User, string, error) {
	if s.regErr != nil {
		return nil, "", s.regErr
	}
	return s.user, s.token, nil
}

func (s *stubAuthSvc) Login(context.Context, string, string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.user, s.token, nil
}

func (s *stubAuthSvc) GetUser(context.Context, string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

type stubChatSvc struct {
	reply   string
	sendErr error
	history []domain.ChatMessage
	histErr error

	gotUserID    *string
	gotSessionID string
	gotMessage   string
}

func (s *stubChatSvc) Send(_ context.Context, userID *string, sessionID, message string) (string, error) {
	s.gotUserID = userID
	s.gotSessionID = sessionID
	s.gotMessage = message
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return s.reply, nil
}

func (s *stubChatSvc) History(context.Context, string) ([]domain.ChatMessage, error) {
	return s.history, s.histErr
}

//
// Helpers
//

func newTestHandlers(fb FeedbackService, auth AuthService, chat ChatService) (*Handlers, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	if fb == nil {
		fb = &stubFeedbackSvc{}
	}
	if auth == nil {
		auth = &stubAuthSvc{}
	}
	if chat == nil {
		chat = &stubChatSvc{}
	}
	h := New(auth, fb, chat, time.Hour)
	return h, gin.New()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

//
// CreateFeedback
//

func TestCreateFeedback_Success(t *testing.T) {
	fb := &stubFeedbackSvc{}
	h, r := newTestHandlers(fb, nil, nil)
	r.POST("/api/feedback", h.CreateFeedback)

	w := doJSON(t, r, http.MethodPost, "/api/feedback",
		`{"name":"Ada","email":"ada@example.com","type":"bug","message":"chart is blank","pageUrl":"/dashboard"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Feedback submitted successfully") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if fb.createIn == nil || fb.createIn.Name != "Ada" || fb.createIn.PageURL != "/dashboard" {
		t.Fatalf("input not forwarded: %+v", fb.createIn)
	}
	if fb.createIn.IPAddress == "" {
		t.Fatalf("client IP not captured")
	}
}

func TestCreateFeedback_MissingFields(t *testing.T) {
	fb := &stubFeedbackSvc{createErr: services.ErrMissingFields}
	h, r := newTestHandlers(fb, nil, nil)
	r.POST("/api/feedback", h.CreateFeedback)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", `{"name":"Ada"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := w.Body.String(); !strings.Contains(got, `"error":"Name, email and message are required"`) {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestCreateFeedback_MalformedJSON(t *testing.T) {
	h, r := newTestHandlers(nil, nil, nil)
	r.POST("/api/feedback", h.CreateFeedback)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", `{"name":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Name, email and message are required") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateFeedback_ValidationMappings(t *testing.T) {
	cases := []struct {
		err      error
		wantBody string
	}{
		{services.ErrInvalidEmail, "valid email"},
		{services.ErrMessageTooShort, "at least 5 characters"},
		{services.ErrInvalidType, "Invalid feedback type"},
	}
	for _, tc := range cases {
		fb := &stubFeedbackSvc{createErr: tc.err}
		h, r := newTestHandlers(fb, nil, nil)
		r.POST("/api/feedback", h.CreateFeedback)

		w := doJSON(t, r, http.MethodPost, "/api/feedback",
			`{"name":"A","email":"a@b.com","message":"hello there"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: status = %d, want 400", tc.err, w.Code)
		}
		if !strings.Contains(w.Body.String(), tc.wantBody) {
			t.Fatalf("%v: body %s does not mention %q", tc.err, w.Body.String(), tc.wantBody)
		}
	}
}

//
// ListFeedback
//

func TestListFeedback_ReturnsArray(t *testing.T) {
	fb := &stubFeedbackSvc{listOut: []domain.Feedback{{ID: "a"}, {ID: "b"}}}
	h, r := newTestHandlers(fb, nil, nil)
	r.GET("/api/feedback", h.ListFeedback)

	w := doJSON(t, r, http.MethodGet, "/api/feedback", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got []domain.Feedback
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("body is not a JSON array: %v; %s", err, w.Body.String())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
}

func TestListFeedback_EmptyIsArrayNotNull(t *testing.T) {
	h, r := newTestHandlers(&stubFeedbackSvc{}, nil, nil)
	r.GET("/api/feedback", h.ListFeedback)

	w := doJSON(t, r, http.MethodGet, "/api/feedback", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list must serialize as []: %s", w.Body.String())
	}
}

//
// UpdateFeedback
//

func TestUpdateFeedback_Success(t *testing.T) {
	fb := &stubFeedbackSvc{updateOut: &domain.Feedback{ID: "fb-1", Status: domain.StatusResolved}}
	h, r := newTestHandlers(fb, nil, nil)
	r.PATCH("/api/feedback/:id", h.UpdateFeedback)

	w := doJSON(t, r, http.MethodPatch, "/api/feedback/fb-1", `{"status":"resolved"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"feedback"`) {
		t.Fatalf("response missing feedback wrapper: %s", w.Body.String())
	}
}

func TestUpdateFeedback_ErrorMappings(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrFeedbackNotFound, http.StatusNotFound},
		{services.ErrInvalidStatus, http.StatusBadRequest},
		{services.ErrInvalidPriority, http.StatusBadRequest},
		{services.ErrNotesTooLong, http.StatusBadRequest},
	}
	for _, tc := range cases {
		fb := &stubFeedbackSvc{updateErr: tc.err}
		h, r := newTestHandlers(fb, nil, nil)
		r.PATCH("/api/feedback/:id", h.UpdateFeedback)

		w := doJSON(t, r, http.MethodPatch, "/api/feedback/x", `{"status":"resolved"}`)
		if w.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

//
// DeleteFeedback
//

func TestDeleteFeedback(t *testing.T) {
	h, r := newTestHandlers(&stubFeedbackSvc{}, nil, nil)
	r.DELETE("/api/feedback/:id", h.DeleteFeedback)

	w := doJSON(t, r, http.MethodDelete, "/api/feedback/fb-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Feedback deleted successfully") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestDeleteFeedback_NotFound(t *testing.T) {
	h, r := newTestHandlers(&stubFeedbackSvc{deleteErr: services.ErrFeedbackNotFound}, nil, nil)
	r.DELETE("/api/feedback/:id", h.DeleteFeedback)

	w := doJSON(t, r, http.MethodDelete, "/api/feedback/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"Feedback not found"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
