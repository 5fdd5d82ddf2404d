package presence

import (
	"log/slog"
	"net/http"

	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Aggregator *Aggregator
}

func NewHandler(agg *Aggregator) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Aggregator:  agg,
	}
}

// ListOnline handles GET /admin/presence
func (h *Handler) ListOnline(w http.ResponseWriter, r *http.Request) {
	records := h.Aggregator.Snapshot()

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"online": records,
		"count":  len(records),
	})
}
