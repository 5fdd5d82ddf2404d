package provision

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type ServiceAPI interface {
	CreateOrUpdateServiceUser(dto ProvisionDTO) (*Result, error)
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

// CreateOrUpdate handles POST /admin/provision
func (h *Handler) CreateOrUpdate(w http.ResponseWriter, r *http.Request) {
	var dto ProvisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CreateOrUpdateServiceUser(dto)
	if err != nil {
		h.Logger.Error("provisioning failed", "email", dto.Email, "error", err)
		h.WriteAppError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == StatusCreated {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, result)
}
