package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/fixnow-api/models"
)

// ErrBadToken covers every reason a token is rejected
var ErrBadToken = errors.New("invalid token")

// Identity is the verified claim set of a request
type Identity struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// HasRole reports whether the identity carries role
func (i Identity) HasRole(role models.Role) bool {
	return i.Role == role
}

// Claims is the token payload: id, email, role, iat, exp
type Claims struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens. There is no revocation: a
// token stays valid until exp even if the account changes or is deleted.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// WithClock returns a copy of s reading the time from now
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// Issue signs a token for user
func (s *TokenService) Issue(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature and expiry of raw and returns its identity
func (s *TokenService) Validate(raw string) (*Identity, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	if c.ID == 0 || !c.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", ErrBadToken)
	}

	return &Identity{ID: c.ID, Email: c.Email, Role: c.Role}, nil
}
