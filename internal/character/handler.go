// AngelaMos | 2026
// handler.go

package character

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/characters", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	chars, err := h.service.List(r.Context(), r.URL.Query().Get("series"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToListResponse(chars))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetUsername(r.Context()), req)
	if err != nil {
		core.JSONError(w, core.ToAppError(err, "character"))
		return
	}

	core.Created(w, ToResponse(c))
}
