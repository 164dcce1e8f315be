// AngelaMos | 2026
// handler.go

package tag

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/tags", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole("admin", "student"))

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{tagID}", h.Get)
		r.Patch("/edit", h.Edit)
		r.Delete("/", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	author := middleware.GetUserID(r.Context())

	created, err := h.service.Create(r.Context(), author, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(
				w,
				core.ConflictError("A tag with that `name` already exists."),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
	if err != nil {
		core.JSONError(w, core.NotFoundError("Cannot find the tag."))
		return
	}

	author := middleware.GetUserID(r.Context())

	found, err := h.service.Get(r.Context(), id, author)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("Cannot find the tag."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, found)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	author := middleware.GetUserID(r.Context())

	tags, err := h.service.List(r.Context(), author)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tags)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	author := middleware.GetUserID(r.Context())

	edited, err := h.service.Edit(r.Context(), author, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.JSONError(w, core.NotFoundError("Cannot find the tag."))
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(
				w,
				core.ConflictError("A tag with that `name` already exists."),
			)
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, edited)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	author := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), req.ID, author); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("Cannot find that tag."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
