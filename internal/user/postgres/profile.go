package user

import (
	"errors"

	internal "github.com/jovitools/portal/internal"
	grantmodel "github.com/jovitools/portal/internal/core/datamodel/grant"
	profilemodel "github.com/jovitools/portal/internal/core/datamodel/profile"
	"github.com/jovitools/portal/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUserID(userID string) (*user.Profile, error) {
	var m profilemodel.Profile
	if err := r.db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProfileNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&m), nil
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

func (r *Repository) ListAll() ([]*user.Profile, error) {
	var models []profilemodel.Profile
	if err := r.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	profiles := make([]*user.Profile, 0, len(models))
	for i := range models {
		profiles = append(profiles, user.FromDataModel(&models[i]))
	}
	return profiles, nil
}
