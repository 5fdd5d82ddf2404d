package entitlement

import (
	"errors"
	"time"

	"github.com/google/uuid"
	internal "github.com/jovitools/portal/internal"
	grantmodel "github.com/jovitools/portal/internal/core/datamodel/grant"
	profilemodel "github.com/jovitools/portal/internal/core/datamodel/profile"
	usermodel "github.com/jovitools/portal/internal/core/datamodel/user"
	"github.com/jovitools/portal/internal/entitlement"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAccount(userID string) (*entitlement.Account, error) {
	var m profilemodel.Profile
	if err := r.db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProfileNotFound
		}
		return nil, err
	}

	return &entitlement.Account{
		ProfileID:       m.ID,
		UserID:          m.UserID,
		Email:           m.Email,
		HasAccess:       m.HasAccess,
		AccessExpiresAt: m.AccessExpiresAt,
	}, nil
}

func (r *Repository) GetGrantedPlatformIDs(profileID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&grantmodel.Grant{}).
		Where("profile_id = ?", profileID).
		Order("platform_id").
		Pluck("platform_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReconcileGrants applies the grant diff and the profile update in one
// transaction. Removals run first.
func (r *Repository) ReconcileGrants(profileID string, toRemove, toAdd []string, hasAccess bool, expiresAt *time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(toRemove) > 0 {
			err := tx.Where("profile_id = ? AND platform_id IN ?", profileID, toRemove).
				Delete(&grantmodel.Grant{}).Error
			if err != nil {
				return err
			}
		}

		for _, platformID := range toAdd {
			grant := grantmodel.Grant{
				ID:         uuid.NewString(),
				ProfileID:  profileID,
				PlatformID: platformID,
			}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}

		return tx.Model(&profilemodel.Profile{}).
			Where("id = ?", profileID).
			Updates(map[string]interface{}{
				"has_access":        hasAccess,
				"access_expires_at": expiresAt,
				"updated_at":        time.Now(),
			}).Error
	})
}

func (r *Repository) UpdateExpiration(profileID string, expiresAt *time.Time) error {
	result := r.db.Model(&profilemodel.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"access_expires_at": expiresAt,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) SetBlocked(profileID string) error {
	result := r.db.Model(&profilemodel.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"has_access": false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrProfileNotFound
	}
	return nil
}

func (r *Repository) SetUnblocked(profileID string, expiresAt time.Time) error {
	result := r.db.Model(&profilemodel.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{
			"has_access":        true,
			"access_expires_at": expiresAt,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrProfileNotFound
	}
	return nil
}

// DeleteUser removes the member's grants, profile, role rows and auth
// identity in one transaction.
func (r *Repository) DeleteUser(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var m profilemodel.Profile
		if err := tx.Where("user_id = ?", userID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrProfileNotFound
			}
			return err
		}

		if err := tx.Where("profile_id = ?", m.ID).Delete(&grantmodel.Grant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", m.ID).Delete(&profilemodel.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&usermodel.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&usermodel.User{}).Error
	})
}
