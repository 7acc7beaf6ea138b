// Package domain defines the core persistence models for the application.
package domain

import "time"

// Submission records a processed public feedback submission keyed by
// (client_key, email). It lets the create endpoint absorb client retries and
// double-clicks: a repeated Idempotency-Key within the TTL window resolves to
// the originally created feedback instead of inserting a second row.
type Submission struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	ClientKey  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_submission_key_email,priority:1"`
	Email      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_submission_key_email,priority:2"`
	FeedbackID string    `gorm:"type:TEXT NOT NULL"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Submission) TableName() string { return "submissions" }
