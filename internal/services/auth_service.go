// Package services – AuthService
//
// This file implements account registration, credential login, and session
// lookup. Password policy and identifier syntax live in the domain package;
// token issuance is delegated to the token package so the service stays
// transport-agnostic.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aispire/go-career-backend/internal/domain"
	"github.com/aispire/go-career-backend/internal/repo"
	"github.com/aispire/go-career-backend/internal/token"
)

// minPasswordLen is the minimum accepted password length in runes.
const minPasswordLen = 8

// AuthService implements registration and login on top of the user repo and
// the JWT token service.
type AuthService struct {
	DB     *gorm.DB
	Tokens *token.Service
}

// NewAuthService wires an AuthService.
func NewAuthService(db *gorm.DB, tokens *token.Service) *AuthService {
	return &AuthService{DB: db, Tokens: tokens}
}

// RegisterInput carries the signup fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new active user with the default "user" role and
// returns the stored record together with a freshly issued session token.
//
// Validation errors are sentinels: ErrInvalidUsername, ErrInvalidEmail,
// ErrWeakPassword, ErrUsernameTaken, ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if !domain.UsernameRe.MatchString(username) {
		return nil, "", ErrInvalidUsername
	}
	if !domain.EmailRe.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len([]rune(in.Password)) < minPasswordLen {
		return nil, "", ErrWeakPassword
	}

	// Pre-flight uniqueness checks give the caller a precise error; the
	// unique indexes remain the authority under concurrency.
	if _, err := repo.GetUserByEmail(ctx, s.DB, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}
	if _, err := repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, "", err
	}

	u := &domain.User{
		Username: username,
		Email:    email,
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, "", err
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, "", err
	}

	tok, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login verifies the email/password pair and returns the user plus a session
// token. Unknown email, wrong password, and deactivated accounts all yield
// ErrInvalidCredentials so the response does not reveal which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !u.CheckPassword(password) || !u.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	// Best effort; a failed stamp must not block the login.
	_ = repo.TouchLastLogin(ctx, s.DB, u.ID, now)
	u.LastLogin = &now

	tok, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// GetUser loads a user by id or returns ErrUserNotFound.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUserByID(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
