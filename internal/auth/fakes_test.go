// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

type memStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		values: map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return "", core.ErrCacheMiss
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	delete(s.ttls, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[key]
	return ok, nil
}

type fakeAccounts struct {
	byID map[string]*Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[string]*Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a *Account) error {
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return core.ErrDuplicateKey
		}
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	f.byID[a.ID] = &stored
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			out := *a
			return &out, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeAccounts) GetByInviteHash(_ context.Context, hash string) (*Account, error) {
	for _, a := range f.byID {
		if a.InviteTokenHash != nil && *a.InviteTokenHash == hash {
			out := *a
			return &out, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	a, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	a.PasswordHash = &hash
	return nil
}

func (f *fakeAccounts) IncrementTokenVersion(_ context.Context, id string) (int, error) {
	a, ok := f.byID[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	a.TokenVersion++
	return a.TokenVersion, nil
}

func (f *fakeAccounts) SetInvite(_ context.Context, id, hash string, expiresAt time.Time) error {
	a, ok := f.byID[id]
	if !ok || a.IsConfirmed() {
		return core.ErrNotFound
	}
	a.InviteTokenHash = &hash
	a.InviteExpiresAt = &expiresAt
	return nil
}

func (f *fakeAccounts) Accept(_ context.Context, id, hash string) (*Account, error) {
	a, ok := f.byID[id]
	if !ok || a.IsConfirmed() {
		return nil, core.ErrNotFound
	}
	now := time.Now()
	a.PasswordHash = &hash
	a.ConfirmedAt = &now
	a.InviteTokenHash = nil
	a.InviteExpiresAt = nil
	out := *a
	return &out, nil
}

func (f *fakeAccounts) DeletePending(_ context.Context, id string) error {
	if a, ok := f.byID[id]; ok && !a.IsConfirmed() {
		delete(f.byID, id)
	}
	return nil
}

type fakeTokens struct {
	byID map[string]*RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byID: map[string]*RefreshToken{}}
}

func (f *fakeTokens) Create(_ context.Context, t *RefreshToken) error {
	t.CreatedAt = time.Now()
	stored := *t
	f.byID[t.ID] = &stored
	return nil
}

func (f *fakeTokens) FindByHash(_ context.Context, hash string) (*RefreshToken, error) {
	for _, t := range f.byID {
		if t.TokenHash == hash {
			out := *t
			return &out, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTokens) FindByID(_ context.Context, id string) (*RefreshToken, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (f *fakeTokens) MarkAsUsed(_ context.Context, id, replacedByID string) error {
	t, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	t.IsUsed = true
	t.ReplacedByID = &replacedByID
	return nil
}

func (f *fakeTokens) RevokeByID(_ context.Context, id string) error {
	t, ok := f.byID[id]
	if !ok || t.RevokedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (f *fakeTokens) RevokeByFamilyID(_ context.Context, familyID string) error {
	now := time.Now()
	for _, t := range f.byID {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokens) RevokeAllForUser(_ context.Context, userID string) error {
	now := time.Now()
	for _, t := range f.byID {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokens) ListActive(_ context.Context, userID string) ([]RefreshToken, error) {
	var out []RefreshToken
	for _, t := range f.byID {
		if t.UserID == userID && t.IsValid() {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeRoles struct {
	roles       map[string]string
	invalidated []string
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{roles: map[string]string{}}
}

func (f *fakeRoles) Resolve(_ context.Context, userID string) (string, error) {
	return f.roles[userID], nil
}

func (f *fakeRoles) Invalidate(_ context.Context, userID string) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

type sentMail struct {
	email string
	link  string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) SendInvitation(_ context.Context, email, link string) error {
	f.sent = append(f.sent, sentMail{email: email, link: link})
	return nil
}
