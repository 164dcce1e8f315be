// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/orballo/words-backend/internal/config"
	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	cookies   config.CookieConfig
	validator *validator.Validate
}

func NewHandler(service *Service, cookies config.CookieConfig) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/signout", h.Signout)
			r.Delete("/delete", h.DeleteAccount)
		})
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, formatAuthValidationError(err))
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	if result.CodeIssued != nil {
		core.OK(w, result.CodeIssued)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.Created(w, newSessionResponse(result.User))
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, formatAuthValidationError(err))
		return
	}

	result, err := h.service.Signin(r.Context(), req)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	if result.CodeIssued != nil {
		core.OK(w, result.CodeIssued)
		return
	}

	h.setSessionCookie(w, result.Token)
	core.OK(w, newSessionResponse(result.User))
}

// Signout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server side.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	core.NoContent(w)
}

// DeleteAccount is a two-step confirmation like signup: the first call
// mails a code to the account's own address, the second call with that
// code removes the account and ends the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req DeleteAccountRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, formatAuthValidationError(err))
		return
	}

	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		core.JSONError(w, core.UnauthorizedError(""))
		return
	}

	if req.Code == "" {
		result, issueErr := h.service.RequestDeletion(
			r.Context(),
			claims.Email,
		)
		if issueErr != nil {
			core.InternalServerError(w, issueErr)
			return
		}

		core.OK(w, result.CodeIssued)
		return
	}

	confirmErr := h.service.ConfirmDeletion(
		r.Context(),
		claims.UserID,
		claims.Email,
		req.Code,
	)
	if confirmErr != nil {
		h.writeAuthError(w, confirmErr)
		return
	}

	h.clearSessionCookie(w)
	core.NoContent(w)
}

func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		core.JSONError(
			w,
			core.ConflictError("The email provided is already in use."),
		)
	case errors.Is(err, ErrUsernameTaken):
		core.JSONError(
			w,
			core.ConflictError("The username provided is already in use."),
		)
	case errors.Is(err, ErrUnknownEmail):
		core.BadRequest(w, "The email provided does not exist.")
	case errors.Is(err, ErrInvalidCode):
		core.BadRequest(w, "Invalid code provided.")
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(h.service.TokenTTL().Seconds()),
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: h.cookies.SameSiteMode(),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   -1,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: h.cookies.SameSiteMode(),
	})
}

// formatAuthValidationError keeps the auth surface's historical wording
// for missing fields.
func formatAuthValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request"
	}

	field := validationErrors[0]
	switch field.Field() {
	case "Email":
		if field.Tag() == "email" {
			return "The email provided is not valid."
		}
		return "Email not provided."
	case "Username":
		return "Username not provided."
	case "Code":
		return "Invalid code provided."
	default:
		return core.FormatValidationError(err)
	}
}
