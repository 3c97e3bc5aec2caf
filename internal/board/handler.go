// AngelaMos | 2026
// handler.go

package board

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/media"
	"github.com/carterperez-dev/tierboard/internal/middleware"
)

// ImagePresigner issues upload URLs for character images.
type ImagePresigner interface {
	PresignImageUpload(ctx context.Context, boardID, contentType string) (*media.Upload, error)
}

type Handler struct {
	service   *Service
	images    ImagePresigner
	validator *validator.Validate
}

func NewHandler(service *Service, images ImagePresigner) *Handler {
	return &Handler{
		service:   service,
		images:    images,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the board API. joinLimiter wraps the access-key
// route, which is the only one that accepts a guessable secret.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	joinLimiter func(http.Handler) http.Handler,
) {
	r.Route("/boards", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.With(joinLimiter).Get("/access/{accessKey}", h.JoinByAccessKey)

		r.Route("/{boardID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Rename)
			r.Delete("/", h.Delete)
			r.Post("/tags", h.AddTag)
			r.Post("/users", h.AddUser)
			r.Post("/characters", h.AddCharacter)
			r.Post("/characters/{characterID}/ranking", h.UpdateRanking)
			r.Get("/tiers", h.TierGrid)
			r.Post("/images", h.PresignImage)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBoardRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	b, err := h.service.CreateBoard(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToBoardResponse(b, actor))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUsername(r.Context())

	boards, err := h.service.ListBoards(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBoardListResponse(boards, actor))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUsername(r.Context())

	b, err := h.service.GetBoard(r.Context(), actor, chi.URLParam(r, "boardID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBoardResponse(b, actor))
}

func (h *Handler) JoinByAccessKey(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUsername(r.Context())

	b, err := h.service.JoinByAccessKey(r.Context(), actor, chi.URLParam(r, "accessKey"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBoardResponse(b, actor))
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req UpdateBoardRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	b, err := h.service.RenameBoard(r.Context(), actor, chi.URLParam(r, "boardID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBoardResponse(b, actor))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUsername(r.Context())

	if err := h.service.DeleteBoard(r.Context(), actor, chi.URLParam(r, "boardID")); err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, "Board deleted successfully")
}

func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req AddTagRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	tags, err := h.service.AddTag(r.Context(), actor, chi.URLParam(r, "boardID"), req.Tag)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TagListResponse{TagList: tags})
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	users, err := h.service.AddUser(r.Context(), actor, chi.URLParam(r, "boardID"), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, AllowedUsersResponse{AllowedUsers: users})
}

func (h *Handler) AddCharacter(w http.ResponseWriter, r *http.Request) {
	var req AddCharacterRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	c, err := h.service.AddCharacter(r.Context(), actor, chi.URLParam(r, "boardID"), req.Character)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToCharacterResponse(c, actor))
}

func (h *Handler) UpdateRanking(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	c, err := h.service.UpdateRanking(
		r.Context(),
		actor,
		chi.URLParam(r, "boardID"),
		chi.URLParam(r, "characterID"),
		req.Tier,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCharacterResponse(c, actor))
}

func (h *Handler) TierGrid(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUsername(r.Context())

	grid, err := h.service.TierGrid(
		r.Context(),
		actor,
		chi.URLParam(r, "boardID"),
		r.URL.Query().Get("tag"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, grid)
}

func (h *Handler) PresignImage(w http.ResponseWriter, r *http.Request) {
	var req ImageUploadRequest
	if !core.DecodeAndValidate(w, r, h.validator, &req) {
		return
	}

	actor := middleware.GetUsername(r.Context())
	boardID := chi.URLParam(r, "boardID")

	if err := h.service.Authorize(r.Context(), actor, boardID); err != nil {
		writeError(w, err)
		return
	}

	up, err := h.images.PresignImageUpload(r.Context(), boardID, req.ContentType)
	if err != nil {
		if errors.Is(err, media.ErrDisabled) {
			core.NotFound(w, "media")
			return
		}
		writeError(w, err)
		return
	}

	core.OK(w, up)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCharacterNotFound):
		core.NotFound(w, "character")
	case errors.Is(err, ErrUserNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, ErrNotCreator):
		core.Forbidden(w, "only the board creator can do that")
	case errors.Is(err, ErrNoAccess):
		core.Forbidden(w, "you do not have access to this board")
	default:
		core.JSONError(w, core.ToAppError(err, "board"))
	}
}
