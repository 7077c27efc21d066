// AngelaMos | 2026
// handler.go

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/form"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

const resourceName = "task"

var validStatuses = map[schedule.Category]struct{}{
	schedule.Unscheduled: {},
	schedule.Overdue:     {},
	schedule.DueToday:    {},
	schedule.DueSoon:     {},
	schedule.ScheduledOK: {},
}

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{taskID}", h.Get)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, canManage func(http.Handler) http.Handler,
) {
	r.Route("/admin/tasks", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(canManage)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{taskID}", h.Get)
		r.Put("/{taskID}", h.Update)
		r.Delete("/{taskID}", h.Delete)
		r.Post("/{taskID}/complete", h.Complete)
	})
}

// List supports ?asset_id=, ?status=<category> and ?sort=urgency.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		AssetID: q.Get("asset_id"),
		Status:  schedule.Category(q.Get("status")),
		Sort:    q.Get("sort"),
	}

	if params.AssetID != "" {
		if _, err := uuid.Parse(params.AssetID); err != nil {
			core.BadRequest(w, "asset_id must be a valid UUID")
			return
		}
	}

	if params.Status != "" {
		if _, ok := validStatuses[params.Status]; !ok {
			core.BadRequest(w, "status must be one of: unscheduled, overdue, due_today, due_soon, scheduled_ok")
			return
		}
	}

	tasks, err := h.service.List(r.Context(), params)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	today := h.service.Today()
	core.OK(w, TaskListResponse{
		Tasks: ToTaskResponseList(tasks, today),
		Today: today,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToTaskResponse(task, h.service.Today()))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := h.decodeForm(w, r)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	task, err := h.service.Create(r.Context(), fields)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.Created(w, ToTaskResponse(task, h.service.Today()))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	fields, err := h.decodeForm(w, r)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	task, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToTaskResponse(task, h.service.Today()))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "taskID")
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

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "taskID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	task, err := h.service.Complete(r.Context(), id)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToTaskResponse(task, h.service.Today()))
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (Fields, error) {
	req, err := form.Decode[TaskForm](w, r, h.validator)
	if err != nil {
		return Fields{}, err
	}
	return req.Normalize()
}
