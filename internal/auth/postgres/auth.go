package auth

import (
	"database/sql"
	"errors"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/access"
	"github.com/jovitools/portal/internal/auth"
	profilemodel "github.com/jovitools/portal/internal/core/datamodel/profile"
	usermodel "github.com/jovitools/portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, string, error) {
	var passwordHash string
	var userID string
	query := `SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", internal.ErrInvalidCredentials
		}
		return "", "", err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserWithRole(userID string) (*auth.User, error) {
	var row struct {
		ID    string
		Email string
		Role  *string
	}

	query := `SELECT u.id, u.email, ur.role
	          FROM users u
	          LEFT JOIN user_roles ur ON ur.user_id = u.id
	          WHERE u.id = ? AND u.is_active = true`

	if err := r.db.Raw(query, userID).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, internal.ErrInvalidCredentials
	}

	role := access.RoleMember
	if row.Role != nil {
		role = access.ParseRole(*row.Role)
	}

	return &auth.User{
		ID:    row.ID,
		Email: row.Email,
		Role:  role,
	}, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&usermodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUserWithProfile inserts the user and a profile row with no access
// in one transaction. New signups wait for an administrator to grant access.
func (r *Repository) CreateUserWithProfile(userID, email, passwordHash string, name *string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		user := usermodel.User{
			ID:           userID,
			Email:        email,
			PasswordHash: passwordHash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		role := usermodel.UserRole{
			UserID: userID,
			Role:   access.RoleMember.String(),
		}
		if err := tx.Create(&role).Error; err != nil {
			return err
		}

		profile := profilemodel.Profile{
			ID:        userID,
			UserID:    userID,
			Email:     email,
			Name:      name,
			HasAccess: false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&profile).Error
	})
}
