// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/maintenance-tracker/internal/auth"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

// Inviter provisions and withdraws accounts for invited users.
type Inviter interface {
	Invite(ctx context.Context, email, name string) (*auth.Invitation, error)
	RevokeInvitation(ctx context.Context, accountID string) error
	SendInvitation(ctx context.Context, inv *auth.Invitation) error
	ResendInvitation(ctx context.Context, email string) (*auth.Invitation, error)
}

// RoleCache drops a cached role so the next request re-reads it.
type RoleCache interface {
	Invalidate(ctx context.Context, userID string) error
}

type Service struct {
	repo    Repository
	inviter Inviter
	roles   RoleCache
}

func NewService(repo Repository, inviter Inviter, roles RoleCache) *Service {
	return &Service{repo: repo, inviter: inviter, roles: roles}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name.String()
	if req.Role != "" {
		user.Role = req.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.forgetRole(ctx, id)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.forgetRole(ctx, id)
	return nil
}

// Invite creates the account first and the profile second. The two writes
// are not atomic, so a failed profile insert revokes the account it just
// created before the error is returned.
func (s *Service) Invite(ctx context.Context, email, name, role string) (*User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	inv, err := s.inviter.Invite(ctx, email, name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return nil, false, core.DuplicateError("email")
		}
		return nil, false, fmt.Errorf("invite user: %w", err)
	}

	user := &User{
		ID:    inv.AccountID,
		Email: email,
		Name:  name,
		Role:  role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if rbErr := s.inviter.RevokeInvitation(ctx, inv.AccountID); rbErr != nil {
			slog.ErrorContext(ctx, "failed to revoke invitation after profile insert failure",
				"account_id", inv.AccountID,
				"error", rbErr,
			)
		}

		return nil, false, core.NewAppError(
			err,
			"User invited but failed to save metadata: "+gatewayMessage(err),
			http.StatusBadRequest,
			"INVITE_INCOMPLETE",
		)
	}

	sent := true
	if err := s.inviter.SendInvitation(ctx, inv); err != nil {
		sent = false
		slog.WarnContext(ctx, "invitation email not delivered",
			"account_id", inv.AccountID,
			"error", err,
		)
	}

	return user, sent, nil
}

func (s *Service) ResendInvitation(ctx context.Context, email string) error {
	_, err := s.inviter.ResendInvitation(ctx, strings.ToLower(strings.TrimSpace(email)))
	return err
}

func (s *Service) forgetRole(ctx context.Context, id string) {
	if s.roles == nil {
		return
	}
	if err := s.roles.Invalidate(ctx, id); err != nil {
		slog.WarnContext(ctx, "failed to invalidate cached role",
			"user_id", id,
			"error", err,
		)
	}
}

func gatewayMessage(err error) string {
	if appErr, ok := core.AsAppError(err); ok {
		return appErr.Message
	}
	return "database error"
}
