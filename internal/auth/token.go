package auth

import (
	"errors"
	"fmt"
	"time"

	"shopapi/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = time.Hour

// ErrTokenExpired is wrapped (together with models.ErrForbidden) when a
// token was well formed and correctly signed but is past its expiry.
var ErrTokenExpired = errors.New("token expired")

// Identity is the caller identity carried inside a session token.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Claims are the JWT claims issued by TokenManager.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *TokenManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager creates a TokenManager signing with secret.
func NewTokenManager(secret string, opts ...Option) *TokenManager {
	m := &TokenManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for id that expires after the configured TTL.
func (m *TokenManager) Issue(id Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   id.UserID,
		Username: id.Username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the token signature and expiry and returns the identity it
// carries. An empty token yields models.ErrUnauthenticated; every other
// failure yields models.ErrForbidden.
func (m *TokenManager) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, models.ErrUnauthenticated
	}

	claims := &Claims{}
	// Expiry is checked below against the injected clock.
	parser := &jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", models.ErrForbidden, err)
	}

	if !claims.VerifyExpiresAt(m.now().Unix(), true) {
		return Identity{}, fmt.Errorf("%w: %w", models.ErrForbidden, ErrTokenExpired)
	}
	if claims.UserID == "" {
		return Identity{}, fmt.Errorf("%w: token carries no user id", models.ErrForbidden)
	}

	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
