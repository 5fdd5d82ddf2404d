// Package provision implements the out-of-band operator bootstrap: create an
// auth identity with a role, or reset it if it already exists.
package provision

import (
	"fmt"
	"strings"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/access"
)

type ResultStatus string

const (
	StatusCreated ResultStatus = "created"
	StatusUpdated ResultStatus = "updated"
)

type Result struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
	Role   string       `json:"role"`
	Status ResultStatus `json:"status"`
}

type ProvisionDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d *ProvisionDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Role == "" {
		d.Role = access.RoleMember.String()
	}
}

func (d ProvisionDTO) Validate() error {
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Role != access.RoleMember.String() && d.Role != access.RoleAdmin.String() {
		return internal.NewValidationError(fmt.Sprintf("role must be %q or %q", access.RoleMember, access.RoleAdmin), internal.ErrCodeValidationFailed)
	}
	return nil
}

type RepositoryAPI interface {
	FindUserIDByEmail(email string) (string, bool, error)

	// CreateServiceUser inserts the user, role and profile rows together.
	CreateServiceUser(userID, email, passwordHash, role string, now time.Time) error

	// ResetServiceUser overwrites the password and upserts the role record.
	ResetServiceUser(userID, passwordHash, role string, now time.Time) error
}
