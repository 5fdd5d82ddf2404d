package user

import (
	"fmt"
	"time"

	"github.com/jovitools/portal/internal/access"
)

type Repository interface {
	GetByUserID(userID string) (*Profile, error)
	GetGrantedPlatformIDs(profileID string) ([]string, error)
	ListAll() ([]*Profile, error)
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

// GetByUserID returns the caller's profile with its derived access status.
func (s *Service) GetByUserID(userID string) (*Profile, error) {
	p, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Status, p.DaysLeft = access.Classify(p.Snapshot(), s.now())
	return p, nil
}

// AccessState loads the snapshot and grant set the policy engine evaluates.
func (s *Service) AccessState(userID string) (access.Snapshot, access.GrantSet, error) {
	p, err := s.repo.GetByUserID(userID)
	if err != nil {
		return access.Snapshot{}, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	platformIDs, err := s.repo.GetGrantedPlatformIDs(p.ID)
	if err != nil {
		return access.Snapshot{}, nil, fmt.Errorf("failed to get grants: %w", err)
	}

	return p.Snapshot(), access.NewGrantSet(platformIDs), nil
}

// ListProfiles returns every profile with status and grants, for the
// administration screen.
func (s *Service) ListProfiles() ([]*AdminProfile, error) {
	profiles, err := s.repo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	now := s.now()
	result := make([]*AdminProfile, 0, len(profiles))
	for _, p := range profiles {
		p.Status, p.DaysLeft = access.Classify(p.Snapshot(), now)

		platformIDs, err := s.repo.GetGrantedPlatformIDs(p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get grants for profile %s: %w", p.ID, err)
		}

		result = append(result, &AdminProfile{
			Profile:            *p,
			GrantedPlatformIDs: platformIDs,
			GrantCount:         len(platformIDs),
		})
	}

	return result, nil
}
