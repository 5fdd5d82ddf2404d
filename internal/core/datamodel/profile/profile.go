package profile

import "time"

// Profile is the entitlement record for a signed-up user. AccessExpiresAt nil
// means lifetime access; the value is only meaningful while HasAccess is true.
type Profile struct {
	ID              string     `gorm:"primaryKey"`
	UserID          string     `gorm:"column:user_id;uniqueIndex;not null"`
	Email           string     `gorm:"column:email;not null"`
	Name            *string    `gorm:"column:name"`
	HasAccess       bool       `gorm:"column:has_access;default:false"`
	AccessExpiresAt *time.Time `gorm:"column:access_expires_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`
}
