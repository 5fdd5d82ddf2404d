// Package storage persists platform cover images on the local filesystem and
// hands back the public URL they are served under.
package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/jovitools/portal/internal"
)

// maxCoverSize bounds uploads at 5 MiB.
const maxCoverSize = 5 << 20

var extensionByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type CoverStore interface {
	UploadCoverImage(fileBytes []byte, suggestedName string) (publicURL string, err error)
}

// FilesystemStore writes covers under a directory served as static content.
type FilesystemStore struct {
	dir           string
	publicBaseURL string
	now           func() time.Time
}

func NewFilesystemStore(dir, publicBaseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	return &FilesystemStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}, nil
}

// UploadCoverImage sniffs the content, rejects anything that is not an image,
// and stores the bytes under a timestamped name derived from the suggestion.
func (s *FilesystemStore) UploadCoverImage(fileBytes []byte, suggestedName string) (string, error) {
	if len(fileBytes) == 0 {
		return "", internal.NewValidationError("cover image is empty", internal.ErrCodeInvalidImage)
	}
	if len(fileBytes) > maxCoverSize {
		return "", internal.NewValidationError("cover image exceeds the size limit", internal.ErrCodeInvalidImage)
	}

	contentType := http.DetectContentType(fileBytes)
	ext, ok := extensionByContentType[contentType]
	if !ok {
		return "", internal.NewValidationError(
			fmt.Sprintf("unsupported content type %s, expected an image", contentType),
			internal.ErrCodeInvalidImage)
	}

	name := fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), sanitizeName(suggestedName), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return "", internal.NewInternalError("failed to store cover image", err)
	}

	return s.publicBaseURL + "/" + name, nil
}

// Dir is the directory static file serving mounts.
func (s *FilesystemStore) Dir() string {
	return s.dir
}

// sanitizeName keeps the suggestion filesystem- and URL-safe. The original
// extension is dropped; the sniffed one is authoritative.
func sanitizeName(suggested string) string {
	base := strings.TrimSuffix(filepath.Base(suggested), filepath.Ext(suggested))
	if base == "" || base == "." {
		return "cover"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "cover"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
