// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

type verifierFunc func(ctx context.Context, token string) (*Session, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (*Session, error) {
	return f(ctx, token)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, ExtractToken(req), "header %q", tt.header)
	}
}

func TestAuthenticator(t *testing.T) {
	verifier := verifierFunc(func(_ context.Context, token string) (*Session, error) {
		switch token {
		case "good":
			return &Session{UserID: "u-1", TokenID: "jti-1"}, nil
		case "expired":
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		case "revoked":
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		default:
			return nil, errors.New("store offline")
		}
	})

	var gotUser string
	h := Authenticator(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		if auth != "" {
			req.Header.Set("Authorization", "Bearer "+auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve("good")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-1", gotUser)

	tests := []struct {
		token string
		code  string
	}{
		{"", "UNAUTHORIZED"},
		{"expired", "TOKEN_EXPIRED"},
		{"revoked", "TOKEN_REVOKED"},
		{"broken", "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.token, func(t *testing.T) {
			rec := serve(tt.token)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, SignInPage, body.RedirectTo)
		})
	}
}
