package user

import (
	"errors"
	"log/slog"
	"net/http"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/auth"
	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type ServiceAPI interface {
	GetByUserID(userID string) (*Profile, error)
	ListProfiles() ([]*AdminProfile, error)
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.Service.GetByUserID(user.ID)
	if err != nil {
		if errors.Is(err, internal.ErrProfileNotFound) {
			h.WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		h.Logger.Error("failed to load current user profile", "user_id", user.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// ListProfiles handles GET /admin/profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.ListProfiles()
	if err != nil {
		h.Logger.Error("failed to list profiles", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"total":    len(profiles),
	})
}
