package provision

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateOrUpdateServiceUser is idempotent: running it twice with the same
// input converges to the same end state and reports "updated" the second
// time.
func (s *Service) CreateOrUpdateServiceUser(dto ProvisionDTO) (*Result, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, exists, err := s.repo.FindUserIDByEmail(dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if exists {
		if err := s.repo.ResetServiceUser(userID, string(hash), dto.Role, s.now()); err != nil {
			return nil, fmt.Errorf("failed to reset service user: %w", err)
		}
		s.logger.Info("service user reset", "user_id", userID, "role", dto.Role)
		return &Result{UserID: userID, Email: dto.Email, Role: dto.Role, Status: StatusUpdated}, nil
	}

	userID = uuid.NewString()
	if err := s.repo.CreateServiceUser(userID, dto.Email, string(hash), dto.Role, s.now()); err != nil {
		return nil, fmt.Errorf("failed to create service user: %w", err)
	}
	s.logger.Info("service user created", "user_id", userID, "role", dto.Role)

	return &Result{UserID: userID, Email: dto.Email, Role: dto.Role, Status: StatusCreated}, nil
}
