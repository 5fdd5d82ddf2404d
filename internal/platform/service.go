package platform

import (
	"fmt"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/access"
	platformDatamodel "github.com/jovitools/portal/internal/core/datamodel/platform"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(id string) (*platformDatamodel.Platform, error)
	List() ([]*platformDatamodel.Platform, error)
	Create(p *platformDatamodel.Platform) error
	Update(p *platformDatamodel.Platform) error
	Delete(id string) error
}

// AccessStateReader supplies the snapshot and grant set the policy evaluates.
type AccessStateReader interface {
	AccessState(userID string) (access.Snapshot, access.GrantSet, error)
}

type Service struct {
	repo        Repository
	accessStore AccessStateReader
	now         func() time.Time
}

func NewService(repo Repository, accessStore AccessStateReader) *Service {
	return &Service{
		repo:        repo,
		accessStore: accessStore,
		now:         time.Now,
	}
}

// ListForViewer returns the whole catalog with secrets stripped and the
// viewer's per-platform policy decision attached.
func (s *Service) ListForViewer(viewerID string, role access.Role) ([]*Platform, error) {
	models, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}

	snap, grants, err := s.accessStore.AccessState(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer access state: %w", err)
	}

	now := s.now()
	result := make([]*Platform, 0, len(models))
	for _, m := range models {
		p := FromDataModel(m)
		p.CanView = access.CanView(role, snap, grants, m.ID, now)
		result = append(result, p)
	}
	return result, nil
}

// GetSecret returns the platform's gated payload if the policy allows the
// viewer, ErrAccessDenied otherwise.
func (s *Service) GetSecret(viewerID string, role access.Role, platformID string) (*Secret, error) {
	m, err := s.repo.GetByID(platformID)
	if err != nil {
		return nil, err
	}

	snap, grants, err := s.accessStore.AccessState(viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer access state: %w", err)
	}

	if !access.CanView(role, snap, grants, platformID, s.now()) {
		return nil, internal.ErrAccessDenied
	}

	return SecretFromDataModel(m), nil
}

func (s *Service) GetByID(id string) (*Platform, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(m), nil
}

func (s *Service) Create(dto CreatePlatformDTO) (*Platform, error) {
	dto.ApplyDefaults()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	m := &platformDatamodel.Platform{
		ID:            uuid.NewString(),
		Name:          dto.Name,
		Category:      dto.Category,
		Status:        dto.Status,
		AccessType:    dto.AccessType,
		Login:         dto.Login,
		Password:      dto.Password,
		WebsiteURL:    dto.WebsiteURL,
		CoverImageURL: dto.CoverImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}

	return FromDataModel(m), nil
}

func (s *Service) Update(id string, dto UpdatePlatformDTO) (*Platform, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		m.Name = *dto.Name
	}
	if dto.Category != nil {
		m.Category = *dto.Category
	}
	if dto.Status != nil {
		m.Status = *dto.Status
	}
	if dto.AccessType != nil {
		m.AccessType = *dto.AccessType
	}
	if dto.Login != nil {
		m.Login = dto.Login
	}
	if dto.Password != nil {
		m.Password = dto.Password
	}
	if dto.WebsiteURL != nil {
		m.WebsiteURL = dto.WebsiteURL
	}
	if dto.CoverImageURL != nil {
		m.CoverImageURL = dto.CoverImageURL
	}

	if m.AccessType == AccessTypeLinkOnly && (m.WebsiteURL == nil || *m.WebsiteURL == "") {
		return nil, internal.NewValidationError("website_url is required for link_only platforms", internal.ErrCodeMissingWebsiteURL)
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(m); err != nil {
		return nil, fmt.Errorf("failed to update platform: %w", err)
	}

	return FromDataModel(m), nil
}

func (s *Service) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}
	return nil
}

// AdminGetWithSecret serves the edit form: the catalog entry plus its stored
// secret fields.
func (s *Service) AdminGetWithSecret(id string) (*Platform, *Secret, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	return FromDataModel(m), SecretFromDataModel(m), nil
}
