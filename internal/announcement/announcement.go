package announcement

import (
	"time"

	announcementDatamodel "github.com/jovitools/portal/internal/core/datamodel/announcement"
)

// Announcement is an informational notice shown on the member dashboard.
// Visibility is controlled solely by IsActive.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(m *announcementDatamodel.Announcement) *Announcement {
	return &Announcement{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
