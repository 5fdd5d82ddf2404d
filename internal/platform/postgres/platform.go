package platform

import (
	"errors"

	internal "github.com/jovitools/portal/internal"
	platformmodel "github.com/jovitools/portal/internal/core/datamodel/platform"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id string) (*platformmodel.Platform, error) {
	var m platformmodel.Platform
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPlatformNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) List() ([]*platformmodel.Platform, error) {
	var models []platformmodel.Platform
	if err := r.db.Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*platformmodel.Platform, 0, len(models))
	for i := range models {
		out = append(out, &models[i])
	}
	return out, nil
}

func (r *Repository) Create(p *platformmodel.Platform) error {
	return r.db.Create(p).Error
}

func (r *Repository) Update(p *platformmodel.Platform) error {
	result := r.db.Save(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrPlatformNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&platformmodel.Platform{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrPlatformNotFound
	}
	return nil
}
