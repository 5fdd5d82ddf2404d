package entitlement

import (
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/core/common/validation"
)

// SetGrantsDTO is the administration request to reconcile a member's grant
// set. A nil DurationDays means lifetime access (no expiration).
type SetGrantsDTO struct {
	PlatformIDs  []string `json:"platform_ids"`
	DurationDays *int     `json:"duration_days,omitempty"`
}

func (d SetGrantsDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("platform_ids", d.PlatformIDs).Custom(func(value interface{}) *internal.AppError {
		ids, ok := value.([]string)
		if !ok {
			return nil
		}
		for _, id := range ids {
			if id == "" {
				return internal.NewValidationFieldError("platform_ids", "platform_ids must not contain empty ids", internal.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	v.Field("duration_days", d.DurationDays).PositiveDays(internal.ErrCodeInvalidDuration)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AdjustExpirationDTO struct {
	DeltaDays int `json:"delta_days"`
}

func (d AdjustExpirationDTO) Validate() error {
	if d.DeltaDays == 0 {
		return internal.NewValidationError("delta_days must be non-zero", internal.ErrCodeInvalidDuration)
	}
	return nil
}

// SetGrantsResult echoes the applied state back to the operator.
type SetGrantsResult struct {
	Account       Account  `json:"account"`
	PlatformIDs   []string `json:"platform_ids"`
	Added         []string `json:"added"`
	Removed       []string `json:"removed"`
	DurationLabel string   `json:"duration_label"`
}

// AdjustExpirationResult carries the recomputed expiration.
type AdjustExpirationResult struct {
	Account   Account   `json:"account"`
	ExpiresAt time.Time `json:"expires_at"`
}
