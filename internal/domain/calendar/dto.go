package calendar

import (
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type UpdateWorkWeekRequest struct {
	OffDays []string `json:"off_days"`
}

func (r *UpdateWorkWeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.OffDays) >= 7 {
		errs = append(errs, validator.ValidationError{
			Field:   "off_days",
			Message: "at least one working day is required",
		})
	}
	for _, d := range r.OffDays {
		if _, ok := ParseWeekday(d); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "off_days",
				Message: "unknown weekday: " + d,
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkWeekResponse struct {
	OffDays []string `json:"off_days"`
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListHolidaysRequest struct {
	From string
	To   string
}

func (r *ListHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}
