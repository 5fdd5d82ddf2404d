package events

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement lifecycle event types, published by the entitlement service so
// an audit handler can record every admin mutation.
const (
	EventGrantsReconciled   = "entitlement.grants_reconciled"
	EventExpirationAdjusted = "entitlement.expiration_adjusted"
	EventUserBlocked        = "entitlement.user_blocked"
	EventUserUnblocked      = "entitlement.user_unblocked"
	EventUserDeleted        = "entitlement.user_deleted"
)

func NewGrantsReconciledEvent(profileID string, added, removed []string, durationLabel string) BaseEvent {
	return newEntitlementEvent(EventGrantsReconciled, map[string]interface{}{
		"profile_id":     profileID,
		"added":          added,
		"removed":        removed,
		"duration_label": durationLabel,
	})
}

func NewExpirationAdjustedEvent(profileID string, deltaDays int, expiresAt time.Time) BaseEvent {
	return newEntitlementEvent(EventExpirationAdjusted, map[string]interface{}{
		"profile_id": profileID,
		"delta_days": deltaDays,
		"expires_at": expiresAt,
	})
}

func NewBlockToggledEvent(profileID string, blocked bool) BaseEvent {
	eventType := EventUserUnblocked
	if blocked {
		eventType = EventUserBlocked
	}
	return newEntitlementEvent(eventType, map[string]interface{}{
		"profile_id": profileID,
	})
}

func NewUserDeletedEvent(profileID, email string) BaseEvent {
	return newEntitlementEvent(EventUserDeleted, map[string]interface{}{
		"profile_id": profileID,
		"email":      email,
	})
}

func newEntitlementEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
