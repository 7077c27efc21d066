// AngelaMos | 2026
// fakes_test.go

package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/auth"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

type memoryRepo struct {
	mu        sync.Mutex
	users     map[string]User
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[string]User{}}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (m *memoryRepo) GetRole(ctx context.Context, id string) (string, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (m *memoryRepo) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	u.Email = existing.Email
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	m.users[u.ID] = *u
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

func (m *memoryRepo) List(_ context.Context) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

type fakeInviter struct {
	accounts map[string]string
	pending  map[string]bool
	revoked  []string
	sent     []string
	sendErr  error
	nextID   int
}

func newFakeInviter() *fakeInviter {
	return &fakeInviter{
		accounts: map[string]string{},
		pending:  map[string]bool{},
	}
}

func (f *fakeInviter) Invite(_ context.Context, email, _ string) (*auth.Invitation, error) {
	if _, ok := f.accounts[email]; ok {
		return nil, auth.ErrEmailExists
	}

	f.nextID++
	id := fmt.Sprintf("00000000-0000-4000-8000-%012d", f.nextID)
	f.accounts[email] = id
	f.pending[email] = true

	return &auth.Invitation{
		AccountID: id,
		Email:     email,
		Token:     "token-" + id,
		Link:      "https://tracker.example.com/accept?token=token-" + id,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}, nil
}

func (f *fakeInviter) RevokeInvitation(_ context.Context, accountID string) error {
	f.revoked = append(f.revoked, accountID)
	for email, id := range f.accounts {
		if id == accountID {
			delete(f.accounts, email)
			delete(f.pending, email)
		}
	}
	return nil
}

func (f *fakeInviter) SendInvitation(_ context.Context, inv *auth.Invitation) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, inv.Email)
	return nil
}

func (f *fakeInviter) ResendInvitation(_ context.Context, email string) (*auth.Invitation, error) {
	id, ok := f.accounts[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	if !f.pending[email] {
		return nil, auth.ErrAlreadyAccepted
	}
	f.sent = append(f.sent, email)
	return &auth.Invitation{AccountID: id, Email: email}, nil
}

type fakeRoleCache struct {
	invalidated []string
}

func (f *fakeRoleCache) Invalidate(_ context.Context, userID string) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

var errMailDown = errors.New("smtp unavailable")
