// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/form"
	"github.com/carterperez-dev/maintenance-tracker/internal/middleware"
)

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

// RegisterRoutes mounts the sign-in flow under /auth plus the two session
// pages. throttle guards the unauthenticated endpoints.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, throttle func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(throttle)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/refresh", h.Refresh)
			r.Post("/invitations/accept", h.AcceptInvitation)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Post("/logout", h.Logout)
			r.Post("/logout-all", h.LogoutAll)
			r.Get("/sessions", h.GetSessions)
			r.Delete("/sessions/{sessionID}", h.RevokeSession)
			r.Post("/change-password", h.ChangePassword)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/me/landing", h.Landing)
		r.Get("/dashboard", h.Dashboard)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[LoginRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, "account")
		return
	}

	resp, err := h.service.Login(r.Context(), req, r.UserAgent(), core.ClientIP(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[RegisterRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, "account")
		return
	}

	resp, err := h.service.Register(r.Context(), req, r.UserAgent(), core.ClientIP(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[RefreshRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, "token")
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken, r.UserAgent(), core.ClientIP(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[AcceptInvitationRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, "invitation")
		return
	}

	resp, err := h.service.AcceptInvitation(r.Context(), req, r.UserAgent(), core.ClientIP(r))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	core.OK(w, resp)
}

// Logout accepts an empty body; the refresh token is optional.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.Unauthorized(w, "")
		return
	}

	var req LogoutRequest
	if r.ContentLength != 0 {
		decoded, err := form.Decode[LogoutRequest](w, r, h.validator)
		if err != nil {
			core.WriteServiceError(w, err, "token")
			return
		}
		req = decoded
	}

	if err := h.service.Logout(r.Context(), session, req.RefreshToken); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's token")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.LogoutAll(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	sessions, err := h.service.GetActiveSessions(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SessionsResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	sessionID, ok := core.UUIDParam(r, "sessionID")
	if !ok {
		core.NotFound(w, "session")
		return
	}

	if err := h.service.RevokeSession(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot revoke another user's session")
			return
		}
		core.WriteServiceError(w, err, "session")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	req, err := form.Decode[ChangePasswordRequest](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, "account")
		return
	}

	err = h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("current password is incorrect"))
			return
		}
		core.WriteServiceError(w, err, "account")
		return
	}

	core.NoContent(w)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		core.WriteServiceError(w, err, "user")
		return
	}

	core.OK(w, user)
}

// Landing tells the client where the current session belongs.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.JSONError(w, core.UnauthorizedError("").WithRedirect(middleware.SignInPage))
		return
	}

	capabilities := middleware.Capabilities(session.Role)
	if capabilities == nil {
		capabilities = []middleware.Capability{}
	}

	core.OK(w, LandingResponse{
		Role:         optionalRole(session.Role),
		LandingPage:  middleware.LandingPage(session.Role),
		Capabilities: capabilities,
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		core.JSONError(w, core.UnauthorizedError("").WithRedirect(middleware.SignInPage))
		return
	}

	resp, err := h.service.Dashboard(r.Context(), session.UserID, session.Role)
	if err != nil {
		core.WriteServiceError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.JSONError(w, core.UnauthorizedError("invalid email or password"))
	case errors.Is(err, ErrEmailExists):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, ErrAlreadyAccepted):
		core.JSONError(w, core.NewAppError(
			err,
			"invitation has already been accepted",
			http.StatusConflict,
			"ALREADY_ACCEPTED",
		))
	case errors.Is(err, ErrTokenReuse):
		core.JSONError(w, core.NewAppError(
			core.ErrTokenRevoked,
			"security alert: token reuse detected, all sessions revoked",
			http.StatusUnauthorized,
			"TOKEN_REUSE_DETECTED",
		))
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		core.WriteServiceError(w, err, "account")
	}
}
