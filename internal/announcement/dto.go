package announcement

import (
	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/core/common/validation"
)

type CreateAnnouncementDTO struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (d CreateAnnouncementDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("content", d.Content).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateAnnouncementDTO struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (d UpdateAnnouncementDTO) Validate() error {
	if d.Title != nil && *d.Title == "" {
		return internal.NewValidationError("title must not be empty", internal.ErrCodeValidationFailed)
	}
	if d.Content != nil && *d.Content == "" {
		return internal.NewValidationError("content must not be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}
