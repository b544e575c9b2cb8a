// AngelaMos | 2026
// handler.go

package gems

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the purchase endpoints. All three require an
// access-scoped token.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	accessAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(accessAuth)
		r.Post("/purchase-gems", h.Purchase)
		r.Post("/create-intent", h.CreateIntent)
		r.Post("/finalize-purchase", h.Finalize)
		r.Get("/transactions", h.Transactions)
	})
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	txns, err := h.service.Transactions(r.Context(), userID, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, TransactionListResponse{Transactions: txns})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Purchase(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrGateway) {
			core.JSONError(w, core.GatewayError("Payment failed"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.CreateIntent(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrGateway) {
			core.JSONError(w, core.GatewayError("Payment failed"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.UnprocessableEntity(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Finalize(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}
