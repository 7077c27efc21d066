// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Account is a sign-in identity. Invited accounts have an invite token and
// no password until the invitation is accepted.
type Account struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	Name            string     `db:"name"`
	PasswordHash    *string    `db:"password_hash"`
	InviteTokenHash *string    `db:"invite_token_hash"`
	InviteExpiresAt *time.Time `db:"invite_expires_at"`
	ConfirmedAt     *time.Time `db:"confirmed_at"`
	TokenVersion    int        `db:"token_version"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (a *Account) IsConfirmed() bool {
	return a.ConfirmedAt != nil
}

func (a *Account) CanSignIn() bool {
	return a.IsConfirmed() && a.PasswordHash != nil && *a.PasswordHash != ""
}

func (a *Account) InviteExpired(now time.Time) bool {
	return a.InviteExpiresAt == nil || now.After(*a.InviteExpiresAt)
}

type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

func (t *RefreshToken) IsValid() bool {
	return !t.IsExpired() && !t.IsRevoked() && !t.IsUsed
}

// Invitation is what an invite hands back to the caller. Token is the raw
// secret; only its hash is stored.
type Invitation struct {
	AccountID string
	Email     string
	Token     string
	Link      string
	ExpiresAt time.Time
}
