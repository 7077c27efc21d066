// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/form"
)

func TestInviteCreatesProfileThenSends(t *testing.T) {
	repo := newMemoryRepo()
	inviter := newFakeInviter()
	svc := NewService(repo, inviter, &fakeRoleCache{})

	user, sent, err := svc.Invite(context.Background(), " Tech@Example.com ", " Sam ", RoleMaintainer)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "tech@example.com", user.Email)
	assert.Equal(t, "Sam", user.Name)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleMaintainer, stored.Role)
	assert.Equal(t, []string{"tech@example.com"}, inviter.sent)
}

func TestInviteDuplicateEmail(t *testing.T) {
	inviter := newFakeInviter()
	svc := NewService(newMemoryRepo(), inviter, nil)

	_, _, err := svc.Invite(context.Background(), "tech@example.com", "Sam", RoleAdmin)
	require.NoError(t, err)

	_, _, err = svc.Invite(context.Background(), "TECH@example.com", "Sam", RoleAdmin)
	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
}

func TestInviteRevokesAccountWhenProfileFails(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = fmt.Errorf("create user: %w", core.GatewayError(&pgconn.PgError{
		Code:    "23514",
		Message: "role check failed",
	}))
	inviter := newFakeInviter()
	svc := NewService(repo, inviter, nil)

	_, _, err := svc.Invite(context.Background(), "tech@example.com", "Sam", RoleAdmin)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "INVITE_INCOMPLETE", appErr.Code)
	assert.Equal(t, "User invited but failed to save metadata: role check failed", appErr.Message)

	require.Len(t, inviter.revoked, 1)
	assert.Empty(t, inviter.sent, "no mail for a half-created invite")

	_, _, err = svc.Invite(context.Background(), "tech@example.com", "Sam", RoleAdmin)
	assert.Error(t, err, "profile insert still fails")
	assert.Len(t, inviter.revoked, 2, "email was free again after revocation")
}

func TestInviteReportsUndeliveredMail(t *testing.T) {
	inviter := newFakeInviter()
	inviter.sendErr = errMailDown
	repo := newMemoryRepo()
	svc := NewService(repo, inviter, nil)

	user, sent, err := svc.Invite(context.Background(), "tech@example.com", "Sam", RoleAdmin)
	require.NoError(t, err)
	assert.False(t, sent)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "tech@example.com", user.Email)
}

func TestUpdateAndDeleteInvalidateRole(t *testing.T) {
	repo := newMemoryRepo()
	roles := &fakeRoleCache{}
	svc := NewService(repo, newFakeInviter(), roles)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{ID: "u-1", Email: "sam@example.com", Name: "Sam", Role: RoleMaintainer}))

	updated, err := svc.Update(ctx, "u-1", UpdateUserRequest{Name: form.Value(" Samuel "), Role: RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.Name)
	assert.Equal(t, RoleSupervisor, updated.Role)
	assert.Equal(t, "sam@example.com", updated.Email)

	kept, err := svc.Update(ctx, "u-1", UpdateUserRequest{Name: form.Value("Sam")})
	require.NoError(t, err)
	assert.Equal(t, RoleSupervisor, kept.Role, "empty role keeps the current one")

	require.NoError(t, svc.Delete(ctx, "u-1"))
	assert.Equal(t, []string{"u-1", "u-1", "u-1"}, roles.invalidated)

	_, err = svc.Update(ctx, "u-1", UpdateUserRequest{Name: form.Value("Sam")})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
