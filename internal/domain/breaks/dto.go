package breaks

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type StartBreakRequest struct {
	Kind     string  `json:"kind"`
	ConfigID *string `json:"config_id,omitempty"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Kind, KindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(KindValues, ", "),
		})
	}
	if r.ConfigID != nil && validator.IsEmpty(*r.ConfigID) {
		errs = append(errs, validator.ValidationError{
			Field:   "config_id",
			Message: "config_id cannot be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EndBreakRequest struct {
	Kind string `json:"kind"`
}

func (r *EndBreakRequest) Validate() error {
	if !validator.IsInSlice(r.Kind, KindValues) {
		return validator.ValidationErrors{{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(KindValues, ", "),
		}}
	}
	return nil
}

type BreakEventResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	Kind            string  `json:"kind"`
	ConfigID        *string `json:"config_id,omitempty"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	// ExceededMinutes is informational; configured durations are not enforced.
	ExceededMinutes int `json:"exceeded_minutes"`
}

type CreateBreakConfigRequest struct {
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	DurationMinutes *int   `json:"duration_minutes"`
	Enabled         *bool  `json:"enabled"`
}

func (r *CreateBreakConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Kind, KindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: " + strings.Join(KindValues, ", "),
		})
	}
	if Kind(r.Kind) == KindDontDisturb {
		if r.DurationMinutes != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "duration_minutes",
				Message: "dont_disturb has no fixed duration",
			})
		}
	} else if r.DurationMinutes == nil || *r.DurationMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_minutes",
			Message: "duration_minutes must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateBreakConfigRequest struct {
	ID              string  `json:"-"`
	Name            *string `json:"name,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Enabled         *bool   `json:"enabled,omitempty"`
}

func (r *UpdateBreakConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.DurationMinutes != nil && *r.DurationMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_minutes",
			Message: "duration_minutes must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakConfigResponse struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	Enabled         bool   `json:"enabled"`
}
