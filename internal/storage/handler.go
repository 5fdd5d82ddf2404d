package storage

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jovitools/portal/internal/transport"
	"github.com/jovitools/portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Store CoverStore
}

func NewHandler(store CoverStore) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Store:       store,
	}
}

// UploadCover handles POST /admin/covers with a multipart "file" field.
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxCoverSize+1))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	publicURL, err := h.Store.UploadCoverImage(fileBytes, header.Filename)
	if err != nil {
		h.Logger.Error("cover upload failed", "filename", header.Filename, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{
		"url": publicURL,
	})
}
