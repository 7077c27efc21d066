// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/form"
)

type UpdateUserRequest struct {
	Name form.Value `json:"name" validate:"notblank,max=100"`
	Role string     `json:"role" validate:"omitempty,oneof=admin maintainer supervisor"`
}

type InviteUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ResendInvitationRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type InvitedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type InviteResponse struct {
	User    InvitedUser `json:"user"`
	Message string      `json:"message"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
