// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

// TokenRepository stores refresh tokens. Each rotation adds a row to the
// token's family and marks its predecessor used.
type TokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	ListActive(ctx context.Context, userID string) ([]RefreshToken, error)
}

type tokenRepository struct {
	db core.DBTX
}

func NewTokenRepository(db core.DBTX) TokenRepository {
	return &tokenRepository{db: db}
}

const tokenSelect = `
	SELECT
		id, user_id, token_hash, family_id, expires_at, created_at,
		is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address
	FROM refresh_tokens`

func (r *tokenRepository) Create(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.FamilyID,
		token.ExpiresAt,
		token.UserAgent,
		token.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}

	return nil
}

func (r *tokenRepository) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	return r.findOne(ctx, tokenSelect+` WHERE token_hash = $1`, tokenHash)
}

func (r *tokenRepository) FindByID(ctx context.Context, id string) (*RefreshToken, error) {
	return r.findOne(ctx, tokenSelect+` WHERE id = $1`, id)
}

func (r *tokenRepository) findOne(ctx context.Context, query string, arg any) (*RefreshToken, error) {
	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *tokenRepository) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	query := `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	return r.execOne(ctx, "mark refresh token used", query, id, replacedByID)
}

func (r *tokenRepository) RevokeByID(ctx context.Context, id string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`

	return r.execOne(ctx, "revoke refresh token", query, id)
}

func (r *tokenRepository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE family_id = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, familyID); err != nil {
		return fmt.Errorf("revoke token family: %w", err)
	}

	return nil
}

func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	return nil
}

func (r *tokenRepository) ListActive(ctx context.Context, userID string) ([]RefreshToken, error) {
	query := tokenSelect + `
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`

	tokens := []RefreshToken{}
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	return tokens, nil
}

// execOne runs an update that must touch exactly one row.
func (r *tokenRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByInviteHash(ctx context.Context, tokenHash string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) (int, error)
	SetInvite(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	Accept(ctx context.Context, id, passwordHash string) (*Account, error)
	DeletePending(ctx context.Context, id string) error
}

type accountRepository struct {
	db core.DBTX
}

func NewAccountRepository(db core.DBTX) AccountRepository {
	return &accountRepository{db: db}
}

const accountSelect = `
	SELECT
		id, email, name, password_hash, invite_token_hash, invite_expires_at,
		confirmed_at, token_version, created_at, updated_at
	FROM accounts`

func (r *accountRepository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (
			id, email, name, password_hash, invite_token_hash,
			invite_expires_at, confirmed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING token_version, created_at, updated_at`

	err := r.db.GetContext(ctx, account, query,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.InviteTokenHash,
		account.InviteExpiresAt,
		account.ConfirmedAt,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", core.GatewayError(err))
	}

	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.getOne(ctx, accountSelect+` WHERE id = $1`, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getOne(ctx, accountSelect+` WHERE email = $1`, email)
}

func (r *accountRepository) GetByInviteHash(ctx context.Context, tokenHash string) (*Account, error) {
	return r.getOne(ctx, accountSelect+` WHERE invite_token_hash = $1`, tokenHash)
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*Account, error) {
	var account Account
	err := r.db.GetContext(ctx, &account, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *accountRepository) IncrementTokenVersion(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE accounts
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING token_version`

	var version int
	err := r.db.GetContext(ctx, &version, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment token version: %w", err)
	}

	return version, nil
}

func (r *accountRepository) SetInvite(
	ctx context.Context,
	id, tokenHash string,
	expiresAt time.Time,
) error {
	query := `
		UPDATE accounts
		SET invite_token_hash = $2, invite_expires_at = $3, updated_at = NOW()
		WHERE id = $1 AND confirmed_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set invite: %w", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("set invite: %w", core.ErrNotFound)
	}

	return nil
}

// Accept confirms a pending account and consumes its invite token. An
// account that was confirmed in the meantime is reported as not found.
func (r *accountRepository) Accept(ctx context.Context, id, passwordHash string) (*Account, error) {
	query := `
		UPDATE accounts
		SET password_hash = $2,
			confirmed_at = NOW(),
			invite_token_hash = NULL,
			invite_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $1 AND confirmed_at IS NULL
		RETURNING
			id, email, name, password_hash, invite_token_hash, invite_expires_at,
			confirmed_at, token_version, created_at, updated_at`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id, passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("accept invitation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	return &account, nil
}

// DeletePending removes an account that never accepted its invitation.
// Confirmed accounts are left alone.
func (r *accountRepository) DeletePending(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1 AND confirmed_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete pending account: %w", err)
	}

	return nil
}
