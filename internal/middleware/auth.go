// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

const sessionKey contextKey = "session"

// Session is the authenticated caller. Role is filled in by SessionContext
// and stays empty for accounts without a profile.
type Session struct {
	UserID       string
	TokenID      string
	TokenVersion int
	ExpiresAt    time.Time
	Role         string
}

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*Session, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(w, core.UnauthorizedError("missing authorization token").
					WithRedirect(SignInPage))
				return
			}

			session, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(r.Context(), w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *core.AppError

	switch {
	case errors.As(err, &appErr):
	case errors.Is(err, core.ErrTokenExpired):
		appErr = core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		appErr = core.TokenRevokedError()
	case errors.Is(err, core.ErrTokenInvalid):
		appErr = core.TokenInvalidError()
	default:
		slog.ErrorContext(ctx, "token verification failed",
			"request_id", GetRequestID(ctx),
			"error", err,
		)
		appErr = core.TokenInvalidError()
	}

	core.JSONError(w, appErr.WithRedirect(SignInPage))
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.UserID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.Role
	}
	return ""
}
