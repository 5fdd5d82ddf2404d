package platform

import "time"

// Platform is a catalog entry. AccessType decides which secondary fields are
// authoritative: credentials use Login/Password, link_only uses WebsiteURL.
type Platform struct {
	ID            string    `gorm:"primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Category      string    `gorm:"column:category;not null"`
	Status        string    `gorm:"column:status;not null;default:online"`
	AccessType    string    `gorm:"column:access_type;not null;default:credentials"`
	Login         *string   `gorm:"column:login"`
	Password      *string   `gorm:"column:password"`
	WebsiteURL    *string   `gorm:"column:website_url"`
	CoverImageURL *string   `gorm:"column:cover_image_url"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}
