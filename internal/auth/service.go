// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/maintenance-tracker/internal/config"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
	ErrAlreadyAccepted    = errors.New("invitation already accepted")
)

// RoleProvider resolves the role behind a session and forgets it on
// sign-out.
type RoleProvider interface {
	Resolve(ctx context.Context, userID string) (string, error)
	Invalidate(ctx context.Context, userID string) error
}

type Service struct {
	tokens    TokenRepository
	accounts  AccountRepository
	jwt       *JWTManager
	blacklist *Blacklist
	roles     RoleProvider
	mailer    Mailer
	invite    config.InviteConfig
	now       func() time.Time
}

func NewService(
	tokens TokenRepository,
	accounts AccountRepository,
	jwt *JWTManager,
	blacklist *Blacklist,
	roles RoleProvider,
	mailer Mailer,
	invite config.InviteConfig,
) *Service {
	return &Service{
		tokens:    tokens,
		accounts:  accounts,
		jwt:       jwt,
		blacklist: blacklist,
		roles:     roles,
		mailer:    mailer,
		invite:    invite,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps unknown emails as slow as wrong passwords
			_, _ = core.CheckPassword(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !account.CanSignIn() {
		//nolint:errcheck // pending invitations have no hash yet
		_, _ = core.CheckPassword(req.Password, nil)
		return nil, ErrInvalidCredentials
	}

	check, err := core.CheckPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !check.Match {
		return nil, ErrInvalidCredentials
	}

	if check.Rehash != "" {
		//nolint:errcheck // the old hash still verifies
		_ = s.accounts.UpdatePassword(ctx, account.ID, check.Rehash)
	}

	return s.issue(ctx, account, userAgent, ipAddress, "", nil)
}

// Register creates a confirmed account. It gets no role until an admin
// grants one.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &Account{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: &passwordHash,
		ConfirmedAt:  &now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(ctx, account, userAgent, ipAddress, "", nil)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.tokens.FindByHash(ctx, core.DigestToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if stored.IsUsed {
		if revokeErr := s.tokens.RevokeByFamilyID(ctx, stored.FamilyID); revokeErr != nil {
			slog.ErrorContext(ctx, "failed to revoke token family after reuse",
				"family_id", stored.FamilyID,
				"error", revokeErr,
			)
		}
		return nil, ErrTokenReuse
	}

	if !stored.IsValid() {
		if stored.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	account, err := s.accounts.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return s.issue(ctx, account, userAgent, ipAddress, stored.FamilyID, &stored.ID)
}

// Logout ends the current session: the access token is blacklisted, the
// refresh token (when given) is revoked and the cached role is dropped.
func (s *Service) Logout(
	ctx context.Context,
	session *middleware.Session,
	refreshToken string,
) error {
	if err := s.blacklist.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.forgetRole(ctx, session.UserID)

	if refreshToken == "" {
		return nil
	}

	stored, err := s.tokens.FindByHash(ctx, core.DigestToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find token: %w", err)
	}

	if stored.UserID != session.UserID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.tokens.RevokeByID(ctx, stored.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}

// LogoutAll revokes every refresh token and bumps the token version so that
// access tokens already handed out stop working.
func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}

	version, err := s.accounts.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	if err := s.blacklist.SetMinVersion(ctx, userID, version, s.jwt.AccessTokenTTL()); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	s.forgetRole(ctx, userID)
	return nil
}

// VerifyAccessToken turns a bearer token into a session. Revoked tokens
// and tokens older than the user's last sign-out-everywhere are rejected.
func (s *Service) VerifyAccessToken(ctx context.Context, token string) (*middleware.Session, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	minVersion, ok, err := s.blacklist.MinVersion(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if ok && claims.TokenVersion < minVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return &middleware.Session{
		UserID:       claims.UserID,
		TokenID:      claims.TokenID,
		TokenVersion: claims.TokenVersion,
		ExpiresAt:    claims.ExpiresAt,
	}, nil
}

func (s *Service) GetActiveSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	tokens, err := s.tokens.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

func (s *Service) RevokeSession(ctx context.Context, userID, sessionID string) error {
	token, err := s.tokens.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.tokens.RevokeByID(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	check, err := core.CheckPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !check.Match {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.LogoutAll(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(account, s.roleOf(ctx, account.ID))
	return &resp, nil
}

// Dashboard describes the signed-in account for the dashboard page. role
// comes from the session and may be empty.
func (s *Service) Dashboard(ctx context.Context, userID, role string) (*DashboardResponse, error) {
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		ID:       account.ID,
		Email:    account.Email,
		Name:     account.Name,
		Role:     optionalRole(role),
		Verified: account.IsConfirmed(),
	}, nil
}

// Invite creates a pending account and a single-use invite token. The mail
// is not sent here so callers can finish their own writes first.
func (s *Service) Invite(ctx context.Context, email, name string) (*Invitation, error) {
	token, hash, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.invite.TTL)
	account := &Account{
		ID:              uuid.New().String(),
		Email:           normalizeEmail(email),
		Name:            strings.TrimSpace(name),
		InviteTokenHash: &hash,
		InviteExpiresAt: &expiresAt,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create invited account: %w", err)
	}

	return s.invitation(account.ID, account.Email, token, expiresAt), nil
}

// RevokeInvitation deletes an account whose invitation was never accepted.
func (s *Service) RevokeInvitation(ctx context.Context, accountID string) error {
	if err := s.accounts.DeletePending(ctx, accountID); err != nil {
		return fmt.Errorf("revoke invitation: %w", err)
	}
	return nil
}

func (s *Service) SendInvitation(ctx context.Context, inv *Invitation) error {
	if err := s.mailer.SendInvitation(ctx, inv.Email, inv.Link); err != nil {
		return fmt.Errorf("send invitation: %w", err)
	}
	return nil
}

// ResendInvitation rotates the invite token of a pending account and mails
// the new link. The previous link stops working.
func (s *Service) ResendInvitation(ctx context.Context, email string) (*Invitation, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("resend invitation: %w", err)
	}

	if account.IsConfirmed() {
		return nil, ErrAlreadyAccepted
	}

	token, hash, err := newInviteToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.invite.TTL)
	if err := s.accounts.SetInvite(ctx, account.ID, hash, expiresAt); err != nil {
		return nil, fmt.Errorf("resend invitation: %w", err)
	}

	inv := s.invitation(account.ID, account.Email, token, expiresAt)
	if err := s.SendInvitation(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// AcceptInvitation sets the password chosen by the invitee, confirms the
// account and signs it in.
func (s *Service) AcceptInvitation(
	ctx context.Context,
	req AcceptInvitationRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	account, err := s.accounts.GetByInviteHash(ctx, core.DigestToken(req.Token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("accept invitation: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	if account.IsConfirmed() {
		return nil, ErrAlreadyAccepted
	}

	if account.InviteExpired(s.now()) {
		return nil, fmt.Errorf("accept invitation: %w", core.ErrTokenExpired)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	accepted, err := s.accounts.Accept(ctx, account.ID, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrAlreadyAccepted
		}
		return nil, err
	}

	return s.issue(ctx, accepted, userAgent, ipAddress, "", nil)
}

func (s *Service) invitation(accountID, email, token string, expiresAt time.Time) *Invitation {
	return &Invitation{
		AccountID: accountID,
		Email:     email,
		Token:     token,
		Link:      inviteLink(s.invite.RedirectURL, token),
		ExpiresAt: expiresAt,
	}
}

func inviteLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func newInviteToken() (token, hash string, err error) {
	token, err = core.NewOpaqueToken(core.OpaqueTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("generate invite token: %w", err)
	}
	return token, core.DigestToken(token), nil
}

func (s *Service) roleOf(ctx context.Context, userID string) string {
	role, err := s.roles.Resolve(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve role",
			"user_id", userID,
			"error", err,
		)
		return ""
	}
	return role
}

func (s *Service) forgetRole(ctx context.Context, userID string) {
	if err := s.roles.Invalidate(ctx, userID); err != nil {
		slog.WarnContext(ctx, "failed to invalidate cached role",
			"user_id", userID,
			"error", err,
		)
	}
}

func (s *Service) issue(
	ctx context.Context,
	account *Account,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(account.ID, account.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	newTokenID := uuid.New().String()
	refresh := &RefreshToken{
		ID:        newTokenID,
		UserID:    account.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if oldTokenID != nil {
		if markErr := s.tokens.MarkAsUsed(ctx, *oldTokenID, newTokenID); markErr != nil {
			slog.WarnContext(ctx, "failed to mark refresh token used",
				"token_id", *oldTokenID,
				"error", markErr,
			)
		}
	}

	role := s.roleOf(ctx, account.ID)

	return &AuthResponse{
		User: toUserResponse(account, role),
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL().Seconds()),
			ExpiresAt:    access.ExpiresAt,
		},
		LandingPage: middleware.LandingPage(role),
	}, nil
}
