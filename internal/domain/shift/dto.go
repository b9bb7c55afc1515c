package shift

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type CreateShiftPolicyRequest struct {
	Name               string `json:"name"`
	Type               string `json:"type"`
	CheckIn            string `json:"checkin"`
	CheckOut           string `json:"checkout"`
	GracePeriodMinutes *int   `json:"grace_period_minutes"`
	HalfDayMinutes     *int   `json:"half_day_minutes"`
	FullDayMinutes     *int   `json:"full_day_minutes"`
}

func (r *CreateShiftPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if r.Type == "" {
		r.Type = string(ShiftTypeGeneral)
	}
	if !validator.IsInSlice(r.Type, ShiftTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(ShiftTypeValues, ", "),
		})
	}
	if !validator.IsValidTimeOfDay(r.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "checkin",
			Message: "checkin must be a time in HH:MM format",
		})
	}
	if !validator.IsValidTimeOfDay(r.CheckOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "checkout",
			Message: "checkout must be a time in HH:MM format",
		})
	}
	if r.GracePeriodMinutes == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes is required",
		})
	} else if *r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must be a non-negative number",
		})
	}

	half, full := DefaultHalfDayMinutes, DefaultFullDayMinutes
	if r.HalfDayMinutes != nil {
		half = *r.HalfDayMinutes
	}
	if r.FullDayMinutes != nil {
		full = *r.FullDayMinutes
	}
	if half <= 0 || half >= full {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_minutes",
			Message: "half_day_minutes must be positive and less than full_day_minutes",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateShiftPolicyRequest struct {
	ID                 string  `json:"-"`
	Name               *string `json:"name,omitempty"`
	Type               *string `json:"type,omitempty"`
	CheckIn            *string `json:"checkin,omitempty"`
	CheckOut           *string `json:"checkout,omitempty"`
	GracePeriodMinutes *int    `json:"grace_period_minutes,omitempty"`
	HalfDayMinutes     *int    `json:"half_day_minutes,omitempty"`
	FullDayMinutes     *int    `json:"full_day_minutes,omitempty"`
}

// Validate checks field formats only; cross-field thresholds are checked
// against the merged policy by the service.
func (r *UpdateShiftPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name cannot be empty",
		})
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, ShiftTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: " + strings.Join(ShiftTypeValues, ", "),
		})
	}
	if r.CheckIn != nil && !validator.IsValidTimeOfDay(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "checkin",
			Message: "checkin must be a time in HH:MM format",
		})
	}
	if r.CheckOut != nil && !validator.IsValidTimeOfDay(*r.CheckOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "checkout",
			Message: "checkout must be a time in HH:MM format",
		})
	}
	if r.GracePeriodMinutes != nil && *r.GracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "grace_period_minutes",
			Message: "grace_period_minutes must be a non-negative number",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftPolicyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	CheckIn            string `json:"checkin"`
	CheckOut           string `json:"checkout"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	HalfDayMinutes     int    `json:"half_day_minutes"`
	FullDayMinutes     int    `json:"full_day_minutes"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
