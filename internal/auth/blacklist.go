// AngelaMos | 2026
// blacklist.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

// Blacklist records access tokens that were revoked before they expired.
// Single tokens are listed by jti; sign-out-everywhere stores the lowest
// token version still accepted for a user.
type Blacklist struct {
	store core.Store
}

func NewBlacklist(store core.Store) *Blacklist {
	return &Blacklist{store: store}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

func minVersionKey(userID string) string {
	return "session:version:" + userID
}

// Revoke lists jti until expiresAt. Tokens already past expiry are skipped.
func (b *Blacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := b.store.Set(ctx, blacklistKey(jti), "1", ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := b.store.Exists(ctx, blacklistKey(jti))
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return revoked, nil
}

// SetMinVersion rejects every token below version for ttl, which should be
// the access token lifetime.
func (b *Blacklist) SetMinVersion(ctx context.Context, userID string, version int, ttl time.Duration) error {
	if err := b.store.Set(ctx, minVersionKey(userID), strconv.Itoa(version), ttl); err != nil {
		return fmt.Errorf("store min token version: %w", err)
	}
	return nil
}

// MinVersion reports the lowest accepted token version, or ok=false when
// none has been recorded.
func (b *Blacklist) MinVersion(ctx context.Context, userID string) (int, bool, error) {
	raw, err := b.store.Get(ctx, minVersionKey(userID))
	if errors.Is(err, core.ErrCacheMiss) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load min token version: %w", err)
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse min token version: %w", err)
	}

	return version, true, nil
}
