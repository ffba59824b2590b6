package timesheet

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

// EntryDTO is one (date, hours) pair of a weekly submission.
type EntryDTO struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

func (e EntryDTO) ParseDate() (time.Time, error) {
	return time.Parse(dateLayout, e.Date)
}

// CreateTimesheetDTO is the weekly form: a project code and up to 7 per-date
// hour entries, created all-or-nothing.
type CreateTimesheetDTO struct {
	ProjectCode string     `json:"project_code"`
	Entries     []EntryDTO `json:"entries"`
}

func (dto CreateTimesheetDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("project_code", dto.ProjectCode).
		Required().
		MaxLength(64)
	validator.Field("entries", dto.Entries).
		Custom(validateWeekEntries)

	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

func validateWeekEntries(value interface{}) *internal.AppError {
	entries, ok := value.([]EntryDTO)
	if !ok {
		return nil
	}

	if len(entries) == 0 {
		return internal.NewValidationFieldError("entries", "at least one entry is required", internal.ErrCodeValidationFailed)
	}
	if len(entries) > MaxBatchEntries {
		return internal.NewValidationFieldError("entries", "a weekly submission holds at most 7 entries", internal.ErrCodeValidationFailed)
	}

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if _, err := entry.ParseDate(); err != nil {
			return internal.NewValidationFieldError("entries", "entry date must be formatted as YYYY-MM-DD", internal.ErrCodeValidationFailed)
		}
		if err := validation.ValidateHours(entry.Hours); err != nil {
			return err
		}
		if seen[entry.Date] {
			return internal.NewValidationFieldError("entries", "duplicate date in weekly submission", internal.ErrCodeValidationFailed)
		}
		seen[entry.Date] = true
	}
	return nil
}

// UpdateTimesheetDTO carries the replacement values for an owned entry.
type UpdateTimesheetDTO struct {
	ProjectCode string  `json:"project_code"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
}

func (dto UpdateTimesheetDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("project_code", dto.ProjectCode).
		Required().
		MaxLength(64)
	validator.Field("date", dto.Date).
		Required().
		Custom(validateEntryDate)
	validator.Field("hours", dto.Hours).
		FloatRange(0, 24, internal.ErrCodeInvalidHours)

	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

func validateEntryDate(value interface{}) *internal.AppError {
	if s, ok := value.(string); ok && s != "" {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return internal.NewValidationFieldError("date", "date must be formatted as YYYY-MM-DD", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// ReviewDTO carries the manager's free-text comment for approve/reject.
type ReviewDTO struct {
	Comments string `json:"comments"`
}

// ValidateForReject requires a comment so the user always sees a reason.
func (dto ReviewDTO) ValidateForReject() error {
	validator := validation.NewValidator()
	validator.Field("comments", dto.Comments).
		Custom(func(value interface{}) *internal.AppError {
			if s, _ := value.(string); s == "" {
				return internal.NewValidationFieldError("comments", "comments are required when rejecting a timesheet", internal.ErrCodeValidationFailed)
			}
			return nil
		})

	if err := validator.Validate(); err != nil {
		return err
	}
	return nil
}

// ResubmitDTO carries the revised hours for a rejected entry.
type ResubmitDTO struct {
	Hours float64 `json:"hours"`
}

func (dto ResubmitDTO) Validate() error {
	if err := validation.ValidateHours(dto.Hours); err != nil {
		return err
	}
	return nil
}
