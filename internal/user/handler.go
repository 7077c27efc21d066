// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/maintenance-tracker/internal/auth"
	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/form"
)

const resourceName = "user"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterAdminRoutes mounts profile management and the invitation flow.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, canManage func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(canManage)

		r.Get("/", h.ListUsers)
		r.Get("/{userID}", h.GetUser)
		r.Put("/{userID}", h.UpdateUser)
		r.Delete("/{userID}", h.DeleteUser)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(canManage)

		r.Post("/admin/invite-user", h.InviteUser)
		r.Post("/admin/invitations/resend", h.ResendInvitation)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, UserListResponse{Users: ToUserResponseList(users)})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	req, err := form.Decode[UpdateUserRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// DeleteUser removes the profile and answers 204 whether or not it existed.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "userID")
	if !ok {
		core.NoContent(w)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.NoContent(w)
}

func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[InviteUserRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	if msg := h.checkInvite(req); msg != "" {
		core.BadRequest(w, msg)
		return
	}

	user, sent, err := h.service.Invite(r.Context(), req.Email, req.Name, req.Role)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	message := "Invitation sent to " + user.Email
	if !sent {
		message = "User invited but the invitation email could not be sent to " +
			user.Email + "; resend it later"
	}

	core.Created(w, InviteResponse{
		User: InvitedUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
		Message: message,
	})
}

func (h *Handler) checkInvite(req InviteUserRequest) string {
	if strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Name) == "" ||
		req.Role == "" {
		return "Email, name, and role are required"
	}

	if !IsInvitableRole(req.Role) {
		return "Invalid role. Must be admin or maintainer"
	}

	if err := h.validator.Var(strings.TrimSpace(req.Email), "email,max=255"); err != nil {
		return "email must be a valid email address"
	}

	if len(strings.TrimSpace(req.Name)) > 100 {
		return "name must be at most 100 characters"
	}

	return ""
}

func (h *Handler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[ResendInvitationRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	if err := h.service.ResendInvitation(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "invitation")
		case errors.Is(err, auth.ErrAlreadyAccepted):
			core.JSONError(w, core.NewAppError(
				err,
				"invitation has already been accepted",
				http.StatusConflict,
				"ALREADY_ACCEPTED",
			))
		default:
			core.WriteServiceError(w, err, "invitation")
		}
		return
	}

	core.OK(w, map[string]string{
		"message": "Invitation re-sent to " + strings.ToLower(strings.TrimSpace(req.Email)),
	})
}
