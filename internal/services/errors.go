// Package services defines the business logic for feedback moderation,
// authentication, and the chat relay. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages and HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Feedback-related errors.
var (
	// ErrMissingFields is returned when a creation request omits any of the
	// required name, email, or message fields.
	ErrMissingFields = errors.New("name, email and message are required")

	// ErrMessageTooShort is returned when the feedback message is below the
	// minimum length.
	ErrMessageTooShort = errors.New("message is too short")

	// ErrInvalidType is returned when a feedback type is outside the allowed
	// set (bug, feature, suggestion, other).
	ErrInvalidType = errors.New("invalid feedback type")

	// ErrInvalidStatus is returned when a status value is outside the allowed
	// set (open, in_progress, resolved, archived).
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrInvalidPriority is returned when a priority value is outside the
	// allowed set (low, medium, high, critical).
	ErrInvalidPriority = errors.New("invalid priority value")

	// ErrNotesTooLong is returned when admin notes exceed the storage cap.
	ErrNotesTooLong = errors.New("admin notes exceed 2000 characters")

	// ErrFeedbackNotFound indicates that the requested feedback record does
	// not exist.
	ErrFeedbackNotFound = errors.New("feedback not found")
)

// Auth-related errors.
var (
	// ErrInvalidUsername is returned when a username fails the 3-30
	// character pattern.
	ErrInvalidUsername = errors.New("username must be 3-30 letters, digits, underscores or dashes")

	// ErrInvalidEmail is returned when an email address fails basic shape
	// validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password is shorter than 8 characters.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrEmailTaken indicates a registration conflict on the email column.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates a registration conflict on the username column.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on login when the email is unknown,
	// the password does not match, or the account is deactivated. Callers
	// must not distinguish the three cases to clients.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates the user referenced by a valid token no
	// longer exists (or was deactivated).
	ErrUserNotFound = errors.New("user not found")
)

// Chat-relay errors.
var (
	// ErrEmptyMessage is returned when a chat request contains an empty or
	// whitespace-only message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when a chat message exceeds the
	// configured rune limit.
	ErrMessageTooLong = errors.New("message too long")
)
