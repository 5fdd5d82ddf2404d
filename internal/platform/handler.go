package platform

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jovitools/portal/internal/access"
	"github.com/jovitools/portal/internal/auth"
	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type ServiceAPI interface {
	ListForViewer(viewerID string, role access.Role) ([]*Platform, error)
	GetSecret(viewerID string, role access.Role, platformID string) (*Secret, error)
	AdminGetWithSecret(id string) (*Platform, *Secret, error)
	Create(dto CreatePlatformDTO) (*Platform, error)
	Update(id string, dto UpdatePlatformDTO) (*Platform, error)
	Delete(id string) error
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

// List handles GET /platforms
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	platforms, err := h.Service.ListForViewer(user.ID, user.Role)
	if err != nil {
		h.Logger.Error("failed to list platforms", "user_id", user.ID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": platforms,
		"total":     len(platforms),
	})
}

// GetSecret handles GET /platforms/{platformID}/secret
func (h *Handler) GetSecret(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	platformID := chi.URLParam(r, "platformID")
	if platformID == "" {
		h.WriteError(w, http.StatusBadRequest, "platform id is required")
		return
	}

	secret, err := h.Service.GetSecret(user.ID, user.Role, platformID)
	if err != nil {
		h.Logger.Warn("secret access refused", "user_id", user.ID, "platform_id", platformID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, secret)
}

// AdminGet handles GET /admin/platforms/{platformID}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	platformID := chi.URLParam(r, "platformID")
	if platformID == "" {
		h.WriteError(w, http.StatusBadRequest, "platform id is required")
		return
	}

	p, secret, err := h.Service.AdminGetWithSecret(platformID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"platform": p,
		"secret":   secret,
	})
}

// Create handles POST /admin/platforms
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreatePlatformDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("failed to create platform", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

// Update handles PATCH /admin/platforms/{platformID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	platformID := chi.URLParam(r, "platformID")
	if platformID == "" {
		h.WriteError(w, http.StatusBadRequest, "platform id is required")
		return
	}

	var dto UpdatePlatformDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(platformID, dto)
	if err != nil {
		h.Logger.Error("failed to update platform", "platform_id", platformID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /admin/platforms/{platformID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	platformID := chi.URLParam(r, "platformID")
	if platformID == "" {
		h.WriteError(w, http.StatusBadRequest, "platform id is required")
		return
	}

	if err := h.Service.Delete(platformID); err != nil {
		h.Logger.Error("failed to delete platform", "platform_id", platformID, "error", err)
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
