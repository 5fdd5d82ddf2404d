package announcement

import (
	"errors"

	internal "github.com/jovitools/portal/internal"
	announcementmodel "github.com/jovitools/portal/internal/core/datamodel/announcement"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id string) (*announcementmodel.Announcement, error) {
	var m announcementmodel.Announcement
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) List(activeOnly bool) ([]*announcementmodel.Announcement, error) {
	query := r.db.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var models []announcementmodel.Announcement
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*announcementmodel.Announcement, 0, len(models))
	for i := range models {
		out = append(out, &models[i])
	}
	return out, nil
}

func (r *Repository) Create(a *announcementmodel.Announcement) error {
	return r.db.Create(a).Error
}

func (r *Repository) Update(a *announcementmodel.Announcement) error {
	result := r.db.Save(a)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAnnouncementNotFound
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&announcementmodel.Announcement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAnnouncementNotFound
	}
	return nil
}
