package announcement

import (
	"fmt"
	"time"

	announcementDatamodel "github.com/jovitools/portal/internal/core/datamodel/announcement"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(id string) (*announcementDatamodel.Announcement, error)
	List(activeOnly bool) ([]*announcementDatamodel.Announcement, error)
	Create(a *announcementDatamodel.Announcement) error
	Update(a *announcementDatamodel.Announcement) error
	Delete(id string) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ListActive returns what members see on the dashboard.
func (s *Service) ListActive() ([]*Announcement, error) {
	return s.list(true)
}

// ListAll returns every announcement for the administration screen.
func (s *Service) ListAll() ([]*Announcement, error) {
	return s.list(false)
}

func (s *Service) list(activeOnly bool) ([]*Announcement, error) {
	models, err := s.repo.List(activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	out := make([]*Announcement, 0, len(models))
	for _, m := range models {
		out = append(out, FromDataModel(m))
	}
	return out, nil
}

func (s *Service) Create(dto CreateAnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	now := s.now()
	m := &announcementDatamodel.Announcement{
		ID:        uuid.NewString(),
		Title:     dto.Title,
		Content:   dto.Content,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	return FromDataModel(m), nil
}

func (s *Service) Update(id string, dto UpdateAnnouncementDTO) (*Announcement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		m.Title = *dto.Title
	}
	if dto.Content != nil {
		m.Content = *dto.Content
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(m); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	return FromDataModel(m), nil
}

// ToggleActive flips visibility.
func (s *Service) ToggleActive(id string) (*Announcement, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	m.IsActive = !m.IsActive
	m.UpdatedAt = s.now()

	if err := s.repo.Update(m); err != nil {
		return nil, fmt.Errorf("failed to toggle announcement: %w", err)
	}

	return FromDataModel(m), nil
}

func (s *Service) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return nil
}
