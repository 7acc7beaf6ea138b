package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aispire/go-career-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedFeedback(t *testing.T, db *gorm.DB, name, email, msg string) *domain.Feedback {
	t.Helper()
	fb := &domain.Feedback{
		Name:     name,
		Email:    email,
		Type:     domain.TypeSuggestion,
		Message:  msg,
		Status:   domain.StatusOpen,
		Priority: domain.PriorityMedium,
	}
	if err := CreateFeedback(context.Background(), db, fb); err != nil {
		t.Fatalf("seed feedback: %v", err)
	}
	return fb
}

func TestCreateAndGetFeedback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fb := seedFeedback(t, db, "Ann", "a@b.com", "App crashes on save")
	if fb.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := GetFeedback(ctx, db, fb.ID)
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.Name != "Ann" || got.Email != "a@b.com" || got.Message != "App crashes on save" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != domain.StatusOpen || got.Priority != domain.PriorityMedium {
		t.Errorf("unexpected moderation defaults: %s/%s", got.Status, got.Priority)
	}
}

func TestGetFeedback_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := GetFeedback(context.Background(), db, "000000000000000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFeedback_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := seedFeedback(t, db, "A", "a@x.com", "first message")
	// Force a later timestamp on the second row.
	second := seedFeedback(t, db, "B", "b@x.com", "second message")
	db.Model(second).Update("created_at", time.Now().UTC().Add(time.Minute))

	list, err := ListFeedback(ctx, db)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("expected newest first, got [%s %s]", list[0].Name, list[1].Name)
	}
}

func TestSaveFeedback_UpdatesOverlay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fb := seedFeedback(t, db, "Ann", "a@b.com", "needs triage")
	fb.Status = domain.StatusResolved
	fb.Priority = domain.PriorityHigh
	fb.AdminNotes = "fixed in 1.4.2"
	if err := SaveFeedback(ctx, db, fb); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}

	got, err := GetFeedback(ctx, db, fb.ID)
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if got.Status != domain.StatusResolved || got.Priority != domain.PriorityHigh || got.AdminNotes != "fixed in 1.4.2" {
		t.Errorf("overlay not persisted: %+v", got)
	}
	// Submission fields must be untouched.
	if got.Name != "Ann" || got.Message != "needs triage" {
		t.Errorf("submission fields changed: %+v", got)
	}
}

func TestDeleteFeedback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fb := seedFeedback(t, db, "Ann", "a@b.com", "delete me")
	if err := DeleteFeedback(ctx, db, fb.ID); err != nil {
		t.Fatalf("DeleteFeedback: %v", err)
	}
	if _, err := GetFeedback(ctx, db, fb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	list, err := ListFeedback(ctx, db)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted row still listed: %d rows", len(list))
	}

	if err := DeleteFeedback(ctx, db, fb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMarkEmailSent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fb := seedFeedback(t, db, "Ann", "a@b.com", "notify admin")
	at := time.Now().UTC().Truncate(time.Second)
	if err := MarkEmailSent(ctx, db, fb.ID, at); err != nil {
		t.Fatalf("MarkEmailSent: %v", err)
	}

	got, err := GetFeedback(ctx, db, fb.ID)
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if !got.EmailSent || got.EmailSentAt == nil {
		t.Errorf("email sent flags not set: %+v", got)
	}
}
