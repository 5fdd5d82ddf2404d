package entitlement

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type ServiceAPI interface {
	SetGrants(ctx context.Context, userID string, dto SetGrantsDTO) (*SetGrantsResult, error)
	AdjustExpiration(ctx context.Context, userID string, dto AdjustExpirationDTO) (*AdjustExpirationResult, error)
	ToggleBlock(ctx context.Context, userID string) (*Account, error)
	DeleteUser(ctx context.Context, userID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// SetGrants handles PUT /admin/users/{userID}/grants
func (h *Handler) SetGrants(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var dto SetGrantsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.SetGrants(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Error("set grants failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AdjustExpiration handles PATCH /admin/users/{userID}/expiration
func (h *Handler) AdjustExpiration(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var dto AdjustExpirationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.AdjustExpiration(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Error("adjust expiration failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ToggleBlock handles POST /admin/users/{userID}/toggle-block
func (h *Handler) ToggleBlock(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	account, err := h.Service.ToggleBlock(r.Context(), userID)
	if err != nil {
		h.Logger.Error("toggle block failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, account)
}

// DeleteUser handles DELETE /admin/users/{userID}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.Service.DeleteUser(r.Context(), userID); err != nil {
		h.Logger.Error("delete user failed", "user_id", userID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
