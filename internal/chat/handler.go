// AngelaMos | 2026
// handler.go

package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gemfluence/backend/internal/core"
	"github.com/gemfluence/backend/internal/middleware"
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
	accessAuth func(http.Handler) http.Handler,
) {
	r.Route("/chat", func(r chi.Router) {
		r.Use(accessAuth)
		r.Post("/unlock", h.Unlock)
	})
}

func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	unlock, err := h.service.Unlock(r.Context(), userID, req.InfluencerID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "influencer")
		case errors.Is(err, ErrAlreadyUnlocked):
			core.BadRequest(w, "Chat already unlocked")
		case errors.Is(err, ErrInsufficientGems):
			core.BadRequest(w, "Not enough gems")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, UnlockResponse{
		Message: "Chat unlocked successfully",
		Unlock:  unlock,
	})
}
