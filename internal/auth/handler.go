// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/middleware"
	"github.com/carterperez-dev/tierboard/internal/session"
)

const (
	msgLoggedOut       = "Logged out successfully"
	msgNoActiveSession = "No active session"
	msgBadCredentials  = "Invalid credentials"
)

// CookieJar reads and writes the session cookie.
type CookieJar interface {
	TokenFromRequest(r *http.Request) string
	SetCookie(w http.ResponseWriter, sess *session.Session)
	ClearCookie(w http.ResponseWriter)
}

type Handler struct {
	service   *Service
	cookies   CookieJar
	validator *validator.Validate
}

func NewHandler(service *Service, cookies CookieJar) *Handler {
	return &Handler{
		service:   service,
		cookies:   cookies,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			core.JSONError(w, core.DuplicateError("username"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetCookie(w, res.Session)
	core.Created(w, res.User)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, msgBadCredentials)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.cookies.SetCookie(w, res.Session)
	core.OK(w, res.User)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	existed, err := h.service.Logout(r.Context(), h.cookies.TokenFromRequest(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.cookies.ClearCookie(w)

	if !existed {
		core.Message(w, msgNoActiveSession)
		return
	}
	core.Message(w, msgLoggedOut)
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	if username == "" {
		core.Unauthorized(w, "")
		return
	}

	core.OK(w, UserResponse{Username: username})
}
