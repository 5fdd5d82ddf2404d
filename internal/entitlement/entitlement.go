package entitlement

import (
	"time"
)

// Account is the mutable entitlement state of one member: the block flag,
// the expiration timestamp, and (via the repository) the grant rows.
type Account struct {
	ProfileID       string     `json:"profile_id"`
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	HasAccess       bool       `json:"has_access"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
}

// IsLifetime reports whether the account carries no dated expiration.
// Expiration adjustments are refused for such accounts.
func (a *Account) IsLifetime() bool {
	return a.AccessExpiresAt == nil
}

type RepositoryAPI interface {
	GetAccount(userID string) (*Account, error)
	GetGrantedPlatformIDs(profileID string) ([]string, error)

	// ReconcileGrants applies the whole diff plus the profile update in a
	// single transaction. Removals run before additions.
	ReconcileGrants(profileID string, toRemove, toAdd []string, hasAccess bool, expiresAt *time.Time) error

	UpdateExpiration(profileID string, expiresAt *time.Time) error
	SetBlocked(profileID string) error
	SetUnblocked(profileID string, expiresAt time.Time) error

	DeleteUser(userID string) error
}
