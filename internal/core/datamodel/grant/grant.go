package grant

import "time"

// Grant pairs a profile with a platform. Unique per pair, no other attributes;
// the owning profile's block/expiration state decides whether it is effective.
type Grant struct {
	ID         string    `gorm:"primaryKey"`
	ProfileID  string    `gorm:"column:profile_id;not null;uniqueIndex:idx_profile_platform"`
	PlatformID string    `gorm:"column:platform_id;not null;uniqueIndex:idx_profile_platform"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (Grant) TableName() string {
	return "platform_grants"
}
