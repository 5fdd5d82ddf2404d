package platform

import (
	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/core/common/validation"
)

type CreatePlatformDTO struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	AccessType    string  `json:"access_type"`
	Login         *string `json:"login,omitempty"`
	Password      *string `json:"password,omitempty"`
	WebsiteURL    *string `json:"website_url,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

func (d *CreatePlatformDTO) ApplyDefaults() {
	if d.Status == "" {
		d.Status = StatusOnline
	}
	if d.AccessType == "" {
		d.AccessType = AccessTypeCredentials
	}
}

func (d CreatePlatformDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("category", d.Category).Required().OneOf(Categories, internal.ErrCodeInvalidCategory)
	v.Field("status", d.Status).OneOf(Statuses, internal.ErrCodeInvalidStatus)
	v.Field("access_type", d.AccessType).OneOf(AccessTypes, internal.ErrCodeInvalidAccessType)
	v.Field("website_url", d.WebsiteURL).URL(internal.ErrCodeValidationFailed)
	v.Field("cover_image_url", d.CoverImageURL).URL(internal.ErrCodeValidationFailed)

	if d.AccessType == AccessTypeLinkOnly && (d.WebsiteURL == nil || *d.WebsiteURL == "") {
		return internal.NewValidationError("website_url is required for link_only platforms", internal.ErrCodeMissingWebsiteURL)
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdatePlatformDTO carries only the fields to change; nil leaves a field
// untouched.
type UpdatePlatformDTO struct {
	Name          *string `json:"name,omitempty"`
	Category      *string `json:"category,omitempty"`
	Status        *string `json:"status,omitempty"`
	AccessType    *string `json:"access_type,omitempty"`
	Login         *string `json:"login,omitempty"`
	Password      *string `json:"password,omitempty"`
	WebsiteURL    *string `json:"website_url,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

func (d UpdatePlatformDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(255)
	}
	if d.Category != nil {
		v.Field("category", *d.Category).OneOf(Categories, internal.ErrCodeInvalidCategory)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).OneOf(Statuses, internal.ErrCodeInvalidStatus)
	}
	if d.AccessType != nil {
		v.Field("access_type", *d.AccessType).OneOf(AccessTypes, internal.ErrCodeInvalidAccessType)
	}
	v.Field("website_url", d.WebsiteURL).URL(internal.ErrCodeValidationFailed)
	v.Field("cover_image_url", d.CoverImageURL).URL(internal.ErrCodeValidationFailed)

	if d.AccessType != nil && *d.AccessType == AccessTypeLinkOnly && (d.WebsiteURL == nil || *d.WebsiteURL == "") {
		return internal.NewValidationError("website_url is required for link_only platforms", internal.ErrCodeMissingWebsiteURL)
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
