package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/core/events"
)

// defaultUnblockDays is the grant period applied when an operator unblocks an
// account without choosing an explicit duration.
const defaultUnblockDays = 30

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service reconciles a member's entitlement state to an operator's requested
// target. All mutations go through the repository in repository-level
// transactions so a failure never leaves a half-applied diff.
type Service struct {
	repo     RepositoryAPI
	eventBus EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, eventBus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// SetGrants replaces the member's grant set with the desired one and
// overwrites the expiration from now. An empty desired set revokes access
// entirely and clears the expiration so no stale date survives a later
// re-grant.
func (s *Service) SetGrants(ctx context.Context, userID string, dto SetGrantsDTO) (*SetGrantsResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetGrantedPlatformIDs(account.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current grants: %w", err)
	}

	desired := dedupe(dto.PlatformIDs)
	toAdd, toRemove := diffGrants(current, desired)

	hasAccess := len(desired) > 0
	var expiresAt *time.Time
	if hasAccess && dto.DurationDays != nil {
		t := s.now().AddDate(0, 0, *dto.DurationDays)
		expiresAt = &t
	}

	if err := s.repo.ReconcileGrants(account.ProfileID, toRemove, toAdd, hasAccess, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to reconcile grants: %w", err)
	}

	label := durationLabel(dto.DurationDays, hasAccess)

	if err := s.eventBus.Publish(ctx, events.NewGrantsReconciledEvent(account.ProfileID, toAdd, toRemove, label)); err != nil {
		s.logger.Warn("failed to publish grants reconciled event", "profile_id", account.ProfileID, "error", err)
	}

	account.HasAccess = hasAccess
	account.AccessExpiresAt = expiresAt

	return &SetGrantsResult{
		Account:       *account,
		PlatformIDs:   desired,
		Added:         toAdd,
		Removed:       toRemove,
		DurationLabel: label,
	}, nil
}

// AdjustExpiration shifts a dated expiration by deltaDays. The base is the
// current expiration, or now when it already lapsed, and the result never
// lands in the past.
func (s *Service) AdjustExpiration(ctx context.Context, userID string, dto AdjustExpirationDTO) (*AdjustExpirationResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	if account.IsLifetime() {
		return nil, internal.ErrLifetimeAccount
	}

	now := s.now()
	base := *account.AccessExpiresAt
	if base.Before(now) {
		base = now
	}

	newExpiry := base.AddDate(0, 0, dto.DeltaDays)
	if newExpiry.Before(now) {
		newExpiry = now
	}

	if err := s.repo.UpdateExpiration(account.ProfileID, &newExpiry); err != nil {
		return nil, fmt.Errorf("failed to update expiration: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.NewExpirationAdjustedEvent(account.ProfileID, dto.DeltaDays, newExpiry)); err != nil {
		s.logger.Warn("failed to publish expiration adjusted event", "profile_id", account.ProfileID, "error", err)
	}

	account.AccessExpiresAt = &newExpiry

	return &AdjustExpirationResult{
		Account:   *account,
		ExpiresAt: newExpiry,
	}, nil
}

// ToggleBlock flips the block flag. Unblocking grants the default period of
// dated access; blocking leaves the stored expiration untouched.
func (s *Service) ToggleBlock(ctx context.Context, userID string) (*Account, error) {
	account, err := s.repo.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	if account.HasAccess {
		if err := s.repo.SetBlocked(account.ProfileID); err != nil {
			return nil, fmt.Errorf("failed to block account: %w", err)
		}
		account.HasAccess = false
	} else {
		expiresAt := s.now().AddDate(0, 0, defaultUnblockDays)
		if err := s.repo.SetUnblocked(account.ProfileID, expiresAt); err != nil {
			return nil, fmt.Errorf("failed to unblock account: %w", err)
		}
		account.HasAccess = true
		account.AccessExpiresAt = &expiresAt
	}

	if err := s.eventBus.Publish(ctx, events.NewBlockToggledEvent(account.ProfileID, !account.HasAccess)); err != nil {
		s.logger.Warn("failed to publish block toggled event", "profile_id", account.ProfileID, "error", err)
	}

	return account, nil
}

// DeleteUser removes the member and everything hanging off them.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	account, err := s.repo.GetAccount(userID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.NewUserDeletedEvent(account.ProfileID, account.Email)); err != nil {
		s.logger.Warn("failed to publish user deleted event", "profile_id", account.ProfileID, "error", err)
	}

	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// diffGrants computes the symmetric difference between the current and
// desired platform sets.
func diffGrants(current, desired []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	toAdd = make([]string, 0)
	for _, id := range desired {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}

	toRemove = make([]string, 0)
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}

func durationLabel(durationDays *int, hasAccess bool) string {
	if !hasAccess {
		return "no access"
	}
	if durationDays == nil {
		return "lifetime"
	}
	return fmt.Sprintf("%d days", *durationDays)
}
