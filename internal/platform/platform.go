package platform

import (
	"time"

	platformDatamodel "github.com/jovitools/portal/internal/core/datamodel/platform"
)

// Catalog enumerations. The store enforces nothing; validation happens before
// any write.
const (
	CategoryAITools      = "ai_tools"
	CategoryStreamings   = "streamings"
	CategorySoftware     = "software"
	CategoryBonusCourses = "bonus_courses"

	StatusOnline      = "online"
	StatusMaintenance = "maintenance"

	AccessTypeCredentials = "credentials"
	AccessTypeLinkOnly    = "link_only"
)

var (
	Categories  = []string{CategoryAITools, CategoryStreamings, CategorySoftware, CategoryBonusCourses}
	Statuses    = []string{StatusOnline, StatusMaintenance}
	AccessTypes = []string{AccessTypeCredentials, AccessTypeLinkOnly}
)

// Platform is a catalog entry as served to members: the secret fields are
// never populated here. Administrators fetch secrets through the dedicated
// secret operation like everyone else.
type Platform struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Status        string    `json:"status"`
	AccessType    string    `json:"access_type"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	CanView       bool      `json:"can_view"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Secret is the gated payload: stored credentials or the direct link,
// depending on the platform's access type.
type Secret struct {
	PlatformID string  `json:"platform_id"`
	AccessType string  `json:"access_type"`
	Login      *string `json:"login,omitempty"`
	Password   *string `json:"password,omitempty"`
	WebsiteURL *string `json:"website_url,omitempty"`
}

func FromDataModel(m *platformDatamodel.Platform) *Platform {
	return &Platform{
		ID:            m.ID,
		Name:          m.Name,
		Category:      m.Category,
		Status:        m.Status,
		AccessType:    m.AccessType,
		CoverImageURL: m.CoverImageURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func SecretFromDataModel(m *platformDatamodel.Platform) *Secret {
	return &Secret{
		PlatformID: m.ID,
		AccessType: m.AccessType,
		Login:      m.Login,
		Password:   m.Password,
		WebsiteURL: m.WebsiteURL,
	}
}
