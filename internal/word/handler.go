// AngelaMos | 2026
// handler.go

package word

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
	r.Route("/words", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole("admin", "student"))

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{wordID}", h.Get)
		r.Patch("/edit", h.Edit)
		r.Patch("/review", h.Review)
		r.Delete("/", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWordRequest
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
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "One of the tags provided does not exist.")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, created)
}

// Get treats a non-numeric id the same as a missing word: the route shape
// leaks nothing about what ids exist.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "wordID"), 10, 64)
	if err != nil {
		core.JSONError(w, core.NotFoundError("Cannot find the word."))
		return
	}

	author := middleware.GetUserID(r.Context())

	found, err := h.service.Get(r.Context(), id, author)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("Cannot find the word."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, found)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	author := middleware.GetUserID(r.Context())

	words, err := h.service.List(r.Context(), author)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, words)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditWordRequest
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
			core.JSONError(w, core.NotFoundError("Cannot find the word."))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "One of the tags provided does not exist.")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, edited)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	var req ReviewWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	author := middleware.GetUserID(r.Context())

	reviewed, err := h.service.Review(r.Context(), author, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("Cannot find that word."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, reviewed)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteWordRequest
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
			core.JSONError(w, core.NotFoundError("Cannot find that word."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}
