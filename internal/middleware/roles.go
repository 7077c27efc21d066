// AngelaMos | 2026
// roles.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

const (
	SignInPage    = "/"
	DashboardPage = "/dashboard"
	AdminPage     = "/admin"
)

type Capability string

const (
	ViewAdmin     Capability = "view_admin"
	ManageUsers   Capability = "manage_users"
	ManageAssets  Capability = "manage_assets"
	ManageTasks   Capability = "manage_tasks"
	ViewDashboard Capability = "view_dashboard"
)

var roleCapabilities = map[string][]Capability{
	"admin":      {ViewAdmin, ManageUsers, ManageAssets, ManageTasks, ViewDashboard},
	"supervisor": {ViewAdmin, ManageUsers, ManageAssets, ManageTasks, ViewDashboard},
	"maintainer": {ViewDashboard},
}

func Capabilities(role string) []Capability {
	return roleCapabilities[role]
}

func Can(role string, c Capability) bool {
	for _, granted := range roleCapabilities[role] {
		if granted == c {
			return true
		}
	}
	return false
}

// LandingPage is where a session goes after sign-in.
func LandingPage(role string) string {
	if Can(role, ViewAdmin) {
		return AdminPage
	}
	return DashboardPage
}

// RoleSource reads the role granted to a user. core.ErrNotFound means no
// role has been granted.
type RoleSource interface {
	GetRole(ctx context.Context, userID string) (string, error)
}

// noRole is cached for users without a profile so they are not looked up
// on every request.
const noRole = "-"

// RoleResolver looks a user's role up once and keeps it in the store for
// the lifetime of an access token.
type RoleResolver struct {
	source RoleSource
	store  core.Store
	ttl    time.Duration
}

func NewRoleResolver(source RoleSource, store core.Store, ttl time.Duration) *RoleResolver {
	return &RoleResolver{source: source, store: store, ttl: ttl}
}

func roleKey(userID string) string {
	return "session:role:" + userID
}

func (rr *RoleResolver) Resolve(ctx context.Context, userID string) (string, error) {
	cached, err := rr.store.Get(ctx, roleKey(userID))
	switch {
	case err == nil:
		if cached == noRole {
			return "", nil
		}
		return cached, nil
	case !errors.Is(err, core.ErrCacheMiss):
		slog.WarnContext(ctx, "role cache unavailable",
			"user_id", userID,
			"error", err,
		)
	}

	role, err := rr.source.GetRole(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		role, err = "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve role: %w", err)
	}

	value := role
	if value == "" {
		value = noRole
	}
	if setErr := rr.store.Set(ctx, roleKey(userID), value, rr.ttl); setErr != nil {
		slog.WarnContext(ctx, "failed to cache role",
			"user_id", userID,
			"error", setErr,
		)
	}

	return role, nil
}

func (rr *RoleResolver) Invalidate(ctx context.Context, userID string) error {
	if err := rr.store.Delete(ctx, roleKey(userID)); err != nil {
		return fmt.Errorf("invalidate role: %w", err)
	}
	return nil
}

// SessionContext attaches the caller's role to the session. It must run
// after Authenticator.
func SessionContext(resolver *RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				core.JSONError(w, core.UnauthorizedError("").WithRedirect(SignInPage))
				return
			}

			role, err := resolver.Resolve(r.Context(), session.UserID)
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			withRole := *session
			withRole.Role = role
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), &withRole)))
		})
	}
}

func RequireCapability(c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				core.JSONError(w, core.UnauthorizedError("").WithRedirect(SignInPage))
				return
			}

			if !Can(session.Role, c) {
				core.JSONError(w, core.ForbiddenError("insufficient permissions").
					WithRedirect(DashboardPage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
