package announcement

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type ServiceAPI interface {
	ListActive() ([]*Announcement, error)
	ListAll() ([]*Announcement, error)
	Create(dto CreateAnnouncementDTO) (*Announcement, error)
	Update(id string, dto UpdateAnnouncementDTO) (*Announcement, error)
	ToggleActive(id string) (*Announcement, error)
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

// ListActive handles GET /announcements
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.Service.ListActive()
	if err != nil {
		h.Logger.Error("failed to list active announcements", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

// ListAll handles GET /admin/announcements
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.Service.ListAll()
	if err != nil {
		h.Logger.Error("failed to list announcements", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

// Create handles POST /admin/announcements
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateAnnouncementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("failed to create announcement", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, a)
}

// Update handles PATCH /admin/announcements/{announcementID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcementID")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "announcement id is required")
		return
	}

	var dto UpdateAnnouncementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("failed to update announcement", "announcement_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// ToggleActive handles POST /admin/announcements/{announcementID}/toggle
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcementID")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "announcement id is required")
		return
	}

	a, err := h.Service.ToggleActive(id)
	if err != nil {
		h.Logger.Error("failed to toggle announcement", "announcement_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /admin/announcements/{announcementID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcementID")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "announcement id is required")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("failed to delete announcement", "announcement_id", id, "error", err)
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
