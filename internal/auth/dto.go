// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/middleware"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,notblank,max=100"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UserResponse describes an account. Role is null until an admin grants
// one.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      *string   `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User        UserResponse  `json:"user"`
	Tokens      TokenResponse `json:"tokens"`
	LandingPage string        `json:"landing_page"`
}

// LandingResponse tells the client where to go and what it may show there.
type LandingResponse struct {
	Role         *string                 `json:"role"`
	LandingPage  string                  `json:"landing_page"`
	Capabilities []middleware.Capability `json:"capabilities"`
}

type DashboardResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Role     *string `json:"role"`
	Verified bool    `json:"verified"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

func optionalRole(role string) *string {
	if role == "" {
		return nil
	}
	return &role
}

func toUserResponse(a *Account, role string) UserResponse {
	return UserResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      optionalRole(role),
		Verified:  a.IsConfirmed(),
		CreatedAt: a.CreatedAt,
	}
}
