package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret, scope string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	v := NewVerifier(testSecret)

	t.Run("valid token", func(t *testing.T) {
		tok := signToken(t, testSecret, ScopeControl, time.Now().Add(time.Hour))
		claims, err := v.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, ScopeControl, claims.Scope)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok := signToken(t, "other-secret", ScopeControl, time.Now().Add(time.Hour))
		_, err := v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, testSecret, ScopeControl, time.Now().Add(-time.Hour))
		_, err := v.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRequireScope(t *testing.T) {
	assert.NoError(t, RequireScope(&Claims{Scope: ScopeControl}, ScopeControl))
	assert.NoError(t, RequireScope(&Claims{Scope: ScopeView}, ScopeView))
	// Control implies view.
	assert.NoError(t, RequireScope(&Claims{Scope: ScopeControl}, ScopeView))
	assert.ErrorIs(t, RequireScope(&Claims{Scope: ScopeView}, ScopeControl), ErrInsufficientScope)
}

func TestMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("empty secret passes through", func(t *testing.T) {
		handler := Middleware("", ScopeControl)(okHandler)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		handler := Middleware(testSecret, ScopeView)(okHandler)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token accepted", func(t *testing.T) {
		handler := Middleware(testSecret, ScopeControl)(okHandler)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, ScopeControl, time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong scope rejected", func(t *testing.T) {
		handler := Middleware(testSecret, ScopeControl)(okHandler)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, ScopeView, time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
