package identity

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wsafety/desk/pkg/core/failure"
)

type tokenFunc func() (string, error)

func (f tokenFunc) Token() (string, error) { return f() }

func staticToken(token string) TokenSource {
	return tokenFunc(func() (string, error) { return token, nil })
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestDecode_ValidToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userType": "NGO_VOLUNTEER", "sub": "17"})

	claims, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "NGO_VOLUNTEER", claims.Role())
	assert.Equal(t, "17", claims.Subject)
}

func TestDecode_IgnoresSignature(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userType": "POLICE"})
	tampered := token[:len(token)-4] + "AAAA"

	claims, err := Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, "POLICE", claims.Role())
}

func TestDecode_Failures(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"single segment", "abc"},
		{"payload not base64", header + ".!!!.sig"},
		{"payload not structured data", header + "." + notJSON + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.token)
			assert.Error(t, err)
			assert.True(t, failure.HasKind(err, failure.KindDecode))
			assert.Empty(t, claims.Role())
		})
	}
}

func TestResolver_Role(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userType": "volunteer"})
	r := NewResolver(staticToken(token), zap.NewNop())

	assert.Equal(t, "volunteer", r.Role())
	claims, ok := r.Claims()
	assert.True(t, ok)
	assert.Equal(t, "volunteer", claims.UserType)
}

func TestResolver_NoTokenIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewResolver(staticToken(""), zap.New(core))

	assert.Empty(t, r.Role())
	assert.Zero(t, logs.Len())
}

func TestResolver_MalformedTokenLogsAndStaysEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewResolver(staticToken("not-a-token"), zap.New(core))

	assert.NotPanics(t, func() {
		assert.Empty(t, r.Role())
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to decode token claims", logs.All()[0].Message)
}

func TestResolver_ReDerivesWhenTokenChanges(t *testing.T) {
	current := signedToken(t, jwt.MapClaims{"userType": "volunteer"})
	r := NewResolver(tokenFunc(func() (string, error) { return current, nil }), zap.NewNop())

	assert.Equal(t, "volunteer", r.Role())

	current = signedToken(t, jwt.MapClaims{"userType": "admin"})
	assert.Equal(t, "admin", r.Role())

	current = ""
	assert.Empty(t, r.Role())
}

func TestResolver_TokenReadError(t *testing.T) {
	r := NewResolver(tokenFunc(func() (string, error) { return "", errors.New("disk error") }), zap.NewNop())
	assert.Empty(t, r.Role())
}

func TestResolver_MalformedTokenLoggedOncePerToken(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewResolver(staticToken("not-a-token"), zap.New(core))

	r.Role()
	r.Role()

	assert.Equal(t, 1, logs.Len())
}
