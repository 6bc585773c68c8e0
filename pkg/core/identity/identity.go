// Package identity reads the caller's role out of the locally stored bearer
// token. The signature is never checked: the result is for display only and
// must not drive authorization.
package identity

import (
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/wsafety/desk/pkg/core/failure"
	"github.com/wsafety/desk/pkg/core/model"
)

// tokenClaims is the claims payload the backend puts in volunteer tokens
type tokenClaims struct {
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// TokenSource yields the currently stored token ("" when none)
type TokenSource interface {
	Token() (string, error)
}

// Decode extracts the claims segment of token without verifying it.
// It has no side effects; failures are DecodeErrors.
func Decode(token string) (model.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Claims{}, failure.Decode("no token", nil)
	}

	var c tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return model.Claims{}, failure.Decode("malformed token", err)
	}
	return model.Claims{UserType: c.UserType, Subject: c.Subject}, nil
}

// Resolver derives display claims from a token source, re-decoding only when
// the stored token changes
type Resolver struct {
	tokens TokenSource
	logger *zap.Logger

	mu        sync.Mutex
	decoded   bool
	lastToken string
	claims    model.Claims
	ok        bool
}

// NewResolver creates a Resolver
func NewResolver(tokens TokenSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{tokens: tokens, logger: logger}
}

// Claims returns the decoded claims and whether decoding succeeded.
// Failures are logged and never returned.
func (r *Resolver) Claims() (model.Claims, bool) {
	token, err := r.tokens.Token()
	if err != nil {
		r.logger.Warn("Failed to read stored token", zap.Error(err))
		token = ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.decoded && token == r.lastToken {
		return r.claims, r.ok
	}
	r.decoded = true
	r.lastToken = token
	r.claims, r.ok = model.Claims{}, false

	if token == "" {
		return r.claims, false
	}

	claims, err := Decode(token)
	if err != nil {
		r.logger.Warn("Failed to decode token claims", zap.Error(err))
		return r.claims, false
	}
	r.claims, r.ok = claims, true
	return r.claims, true
}

// Role returns the display role label, or "" when unavailable
func (r *Resolver) Role() string {
	claims, _ := r.Claims()
	return claims.Role()
}
