// Package domain defines the persistence models for users, feedback
// submissions, and chat history. These types are mapped with GORM and form
// the core data layer of the application.
package domain

import (
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Feedback types.
const (
	TypeBug        = "bug"
	TypeFeature    = "feature"
	TypeSuggestion = "suggestion"
	TypeOther      = "other"
)

// Feedback statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusArchived   = "archived"
)

// Feedback priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Chat message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// MaxAdminNotesLen caps the moderation notes attached to a feedback record.
const MaxAdminNotesLen = 2000

// UsernameRe constrains usernames to 3-30 word characters or dashes.
var UsernameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// EmailRe is a permissive single-at pattern; real deliverability is decided
// by the mail transport, not by the model.
var EmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a registered account. The password is stored only as a
// bcrypt hash and is never serialized; authorization decisions read the
// current Role from the database rather than trusting token claims.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username / Email: globally unique; Email is stored lowercase.
//   - PasswordHash: bcrypt digest, hidden from JSON.
//   - Role: "user", "admin", or "moderator" (enforced by DB constraint).
//   - IsActive: deactivated accounts fail authentication.
//   - LastLogin: updated on each successful login.
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username"   gorm:"type:varchar(30);not null;uniqueIndex:ux_users_username"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(100);not null"`
	Role         string         `json:"role"       gorm:"type:varchar(16);not null;default:'user';check:role IN ('user','admin','moderator')"`
	IsActive     bool           `json:"is_active"  gorm:"not null;default:true"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// SetPassword hashes plain with bcrypt and stores the digest.
func (u *User) SetPassword(plain string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(h)
	return nil
}

// CheckPassword reports whether plain matches the stored bcrypt digest.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// Feedback represents a single user-submitted bug/feature/suggestion entry
// together with its moderation overlay (status, priority, admin notes). The
// submission fields are immutable after creation; only the overlay is
// editable, and deletion is permanent (no soft delete).
//
// Fields:
//   - Name / Email / Message: submitter-provided, all required at creation.
//   - Type: bug|feature|suggestion|other, defaults to "suggestion".
//   - PageURL: frontend page the submission came from.
//   - UserID: set when the submitter carried a valid session token.
//   - Status / Priority: moderation state; any value may transition to any
//     other enumerated value.
//   - AdminNotes: free text, capped at MaxAdminNotesLen.
//   - EmailSent / EmailSentAt: set after the admin alert was delivered.
//   - UserAgent / IPAddress: captured from the submitting request.
type Feedback struct {
	ID          string     `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string     `json:"name"        gorm:"type:varchar(100);not null"`
	Email       string     `json:"email"       gorm:"type:varchar(255);not null;index"`
	Type        string     `json:"type"        gorm:"type:varchar(16);not null;default:'suggestion';check:type IN ('bug','feature','suggestion','other')"`
	Message     string     `json:"message"     gorm:"type:text;not null"`
	PageURL     string     `json:"page_url,omitempty"    gorm:"type:varchar(512)"`
	UserID      *string    `json:"user_id,omitempty"     gorm:"type:char(36);index"`
	Status      string     `json:"status"      gorm:"type:varchar(16);not null;default:'open';index;check:status IN ('open','in_progress','resolved','archived')"`
	Priority    string     `json:"priority"    gorm:"type:varchar(16);not null;default:'medium';check:priority IN ('low','medium','high','critical')"`
	AdminNotes  string     `json:"admin_notes,omitempty" gorm:"type:varchar(2000)"`
	EmailSent   bool       `json:"email_sent"  gorm:"not null;default:false"`
	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"  gorm:"type:varchar(512)"`
	IPAddress   string     `json:"ip_address,omitempty"  gorm:"type:varchar(64)"`
	CreatedAt   time.Time  `json:"created_at"  gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Feedback.
func (Feedback) TableName() string { return "feedback" }

// ChatMessage is one turn of a chat-widget conversation, persisted
// best-effort when the relay is asked to keep history. Rows are append-only.
type ChatMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    *string   `json:"user_id,omitempty" gorm:"type:char(36);index"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);not null;index:idx_session_msgs,priority:1"`
	Sender    string    `json:"sender"     gorm:"type:varchar(8);not null;check:sender IN ('user','bot')"`
	Text      string    `json:"text"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_session_msgs,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// ValidRole reports whether r is an allowed user role.
func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// ValidFeedbackType reports whether t is an allowed feedback type.
func ValidFeedbackType(t string) bool {
	switch t {
	case TypeBug, TypeFeature, TypeSuggestion, TypeOther:
		return true
	}
	return false
}

// ValidFeedbackStatus reports whether s is an allowed feedback status.
func ValidFeedbackStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusArchived:
		return true
	}
	return false
}

// ValidFeedbackPriority reports whether p is an allowed feedback priority.
func ValidFeedbackPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
