package provision

import (
	"errors"
	"time"

	profilemodel "github.com/jovitools/portal/internal/core/datamodel/profile"
	usermodel "github.com/jovitools/portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindUserIDByEmail(email string) (string, bool, error) {
	var user usermodel.User
	err := r.db.Select("id").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return user.ID, true, nil
}

func (r *Repository) CreateServiceUser(userID, email, passwordHash, role string, now time.Time) error {
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

		if err := tx.Create(&usermodel.UserRole{UserID: userID, Role: role}).Error; err != nil {
			return err
		}

		profile := profilemodel.Profile{
			ID:        userID,
			UserID:    userID,
			Email:     email,
			HasAccess: false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&profile).Error
	})
}

func (r *Repository) ResetServiceUser(userID, passwordHash, role string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&usermodel.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password_hash": passwordHash,
				"is_active":     true,
				"updated_at":    now,
			}).Error
		if err != nil {
			return err
		}

		// Upsert the role record.
		var existing usermodel.UserRole
		err = tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&usermodel.UserRole{UserID: userID, Role: role}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&usermodel.UserRole{}).
			Where("user_id = ?", userID).
			Update("role", role).Error
	})
}
