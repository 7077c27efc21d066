// AngelaMos | 2026
// handler.go

package asset

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/form"
)

const resourceName = "asset"

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

// RegisterRoutes exposes read access to any signed-in session.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/assets", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{assetID}", h.Get)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, canManage func(http.Handler) http.Handler,
) {
	r.Route("/admin/assets", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(canManage)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{assetID}", h.Get)
		r.Put("/{assetID}", h.Update)
		r.Delete("/{assetID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.List(r.Context())
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, AssetListResponse{Assets: ToAssetResponseList(assets)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "assetID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToAssetResponse(asset))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := form.Decode[AssetForm](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	fields, err := req.Normalize()
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	asset, err := h.service.Create(r.Context(), fields)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.Created(w, ToAssetResponse(asset))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "assetID")
	if !ok {
		core.NotFound(w, resourceName)
		return
	}

	req, err := form.Decode[AssetForm](w, r, h.validator)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	fields, err := req.Normalize()
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	asset, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, ToAssetResponse(asset))
}

// Delete always answers 204. An id that is not a UUID cannot match a row,
// so there is nothing to remove.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := core.UUIDParam(r, "assetID")
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

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.WriteServiceError(w, err, resourceName)
		return
	}

	core.OK(w, stats)
}
