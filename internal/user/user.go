package user

import (
	"time"

	"github.com/jovitools/portal/internal/access"
	profileDatamodel "github.com/jovitools/portal/internal/core/datamodel/profile"
)

// Profile is a member's entitlement record as seen by the API. Status and
// DaysLeft are derived from the stored snapshot at read time, never persisted.
type Profile struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Email           string        `json:"email"`
	Name            *string       `json:"name,omitempty"`
	HasAccess       bool          `json:"has_access"`
	AccessExpiresAt *time.Time    `json:"access_expires_at,omitempty"`
	Status          access.Status `json:"status"`
	DaysLeft        int           `json:"days_left"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// AdminProfile is the administration listing shape: the profile plus its
// granted platforms.
type AdminProfile struct {
	Profile
	GrantedPlatformIDs []string `json:"granted_platform_ids"`
	GrantCount         int      `json:"grant_count"`
}

func (p *Profile) Snapshot() access.Snapshot {
	return access.Snapshot{
		HasAccess: p.HasAccess,
		ExpiresAt: p.AccessExpiresAt,
	}
}

func FromDataModel(m *profileDatamodel.Profile) *Profile {
	return &Profile{
		ID:              m.ID,
		UserID:          m.UserID,
		Email:           m.Email,
		Name:            m.Name,
		HasAccess:       m.HasAccess,
		AccessExpiresAt: m.AccessExpiresAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
