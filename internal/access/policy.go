// Package access holds the pure entitlement decision logic: given snapshots of
// a user's profile and grant set, decide whether a platform's secret may be
// viewed right now. No I/O happens here; callers fetch first, then ask.
package access

import (
	"math"
	"time"
)

// Role is the caller's role. Keeping it a closed two-variant type keeps the
// administrator bypass in exactly one place instead of scattered conditionals.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "member"
}

// ParseRole maps a stored role string to a Role; anything unrecognized is a
// plain member.
func ParseRole(s string) Role {
	if s == "admin" {
		return RoleAdmin
	}
	return RoleMember
}

// Snapshot is the already-fetched profile state the policy operates on.
// ExpiresAt nil means lifetime access; the value is irrelevant while
// HasAccess is false.
type Snapshot struct {
	HasAccess bool
	ExpiresAt *time.Time
}

// GrantSet is the set of platform ids the user currently holds grants for.
type GrantSet map[string]struct{}

func NewGrantSet(platformIDs []string) GrantSet {
	set := make(GrantSet, len(platformIDs))
	for _, id := range platformIDs {
		set[id] = struct{}{}
	}
	return set
}

func (g GrantSet) Contains(platformID string) bool {
	_, ok := g[platformID]
	return ok
}

// CanView decides whether the caller may view the given platform's secret.
// Rule order, first match wins:
//  1. admins always may
//  2. blocked users never may
//  3. an elapsed expiration denies
//  4. no grant for this specific platform denies
//  5. otherwise allow
//
// A user with access and zero grants is therefore denied everywhere; that is
// the paid-but-unconfigured state, not an error.
func CanView(role Role, snap Snapshot, grants GrantSet, platformID string, now time.Time) bool {
	if role == RoleAdmin {
		return true
	}
	if !snap.HasAccess {
		return false
	}
	if snap.ExpiresAt != nil && !snap.ExpiresAt.After(now) {
		return false
	}
	return grants.Contains(platformID)
}

// Status is a display classification of a profile's entitlement state. It is
// never consulted for the allow/deny decision.
type Status string

const (
	StatusBlocked      Status = "blocked"
	StatusLifetime     Status = "lifetime"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusActive       Status = "active"
)

const expiringSoonThresholdDays = 7

// Classify labels the profile for UI and reporting. The returned day count is
// the calendar-day ceiling of the remaining duration (any partial day counts
// as a whole day); it is zero unless the status is expiring_soon or active.
func Classify(snap Snapshot, now time.Time) (Status, int) {
	if !snap.HasAccess {
		return StatusBlocked, 0
	}
	if snap.ExpiresAt == nil {
		return StatusLifetime, 0
	}
	remaining := snap.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return StatusExpired, 0
	}
	days := int(math.Ceil(remaining.Hours() / 24))
	if days <= expiringSoonThresholdDays {
		return StatusExpiringSoon, days
	}
	return StatusActive, days
}
