package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
)

// Session is the result of a successful login
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService verifies credentials and issues tokens
type AuthService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewAuthService creates an auth service
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Login exchanges an email and password for a signed token.
// Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison
			s.hasher.VerifyDummy(password)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}
