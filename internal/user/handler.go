// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/tierboard/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/{username}", h.GetProfile)
	})
}

// GetProfile lets a board owner confirm a username exists before adding it
// to an allow-list.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.service.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}
