package timesheet

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
)

// Timesheet is one (user, project code, date, hours) entry with an approval
// status. Entries submitted together in one weekly form share a batch ID.
type Timesheet struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	ProjectCodeID int64      `json:"project_code_id"`
	BatchID       string     `json:"batch_id,omitempty"`
	EntryDate     time.Time  `json:"entry_date"`
	Hours         float64    `json:"hours"`
	Status        string     `json:"status"`
	Comments      *string    `json:"comments,omitempty"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxBatchEntries is the weekly form size: one row per day, at most 7.
const MaxBatchEntries = 7

var (
	ErrTimesheetNotFound   = internal.NewNotFoundError("timesheet not found", internal.ErrCodeTimesheetNotFound)
	ErrProjectCodeNotFound = internal.NewNotFoundError("project code not found", internal.ErrCodeProjectCodeNotFound)
	ErrInvalidStatus       = internal.NewValidationError("invalid timesheet status for this operation", internal.ErrCodeInvalidStatus)
	ErrNotEditable         = internal.NewValidationError("only pending timesheets can be modified or deleted", internal.ErrCodeInvalidStatus)
	ErrReopenDisabled      = internal.NewForbiddenError("reopening approved timesheets is disabled", internal.ErrCodeReopenDisabled)
)

func (t *Timesheet) CanBeApproved() bool {
	return t.Status == StatusPending
}

func (t *Timesheet) CanBeRejected() bool {
	return t.Status == StatusPending
}

func (t *Timesheet) CanBeResubmitted() bool {
	return t.Status == StatusRejected
}

func (t *Timesheet) IsEditable() bool {
	return t.Status == StatusPending
}

func (t *Timesheet) Approve(comments *string) {
	now := time.Now()
	t.Status = StatusApproved
	t.Comments = comments
	t.ProcessedAt = &now
	t.UpdatedAt = now
}

func (t *Timesheet) Reject(comments *string) {
	now := time.Now()
	t.Status = StatusRejected
	t.Comments = comments
	t.ProcessedAt = &now
	t.UpdatedAt = now
}

// Resubmit revises the hours of a rejected entry and returns it to pending.
// The manager's prior comment is left in place so the rejection reason stays
// visible until the next review.
func (t *Timesheet) Resubmit(hours float64) {
	t.Hours = hours
	t.Status = StatusPending
	t.ProcessedAt = nil
	t.UpdatedAt = time.Now()
}

func ToDataModel(t *Timesheet) *timesheetDatamodel.Timesheet {
	return &timesheetDatamodel.Timesheet{
		ID:            t.ID,
		UserID:        t.UserID,
		ProjectCodeID: t.ProjectCodeID,
		BatchID:       t.BatchID,
		EntryDate:     t.EntryDate,
		Hours:         t.Hours,
		Status:        t.Status,
		Comments:      t.Comments,
		SubmittedAt:   t.SubmittedAt,
		ProcessedAt:   t.ProcessedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModel(t *timesheetDatamodel.Timesheet) *Timesheet {
	return &Timesheet{
		ID:            t.ID,
		UserID:        t.UserID,
		ProjectCodeID: t.ProjectCodeID,
		BatchID:       t.BatchID,
		EntryDate:     t.EntryDate,
		Hours:         t.Hours,
		Status:        t.Status,
		Comments:      t.Comments,
		SubmittedAt:   t.SubmittedAt,
		ProcessedAt:   t.ProcessedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromDataModelSlice(entries []*timesheetDatamodel.Timesheet) []*Timesheet {
	result := make([]*Timesheet, len(entries))
	for i, t := range entries {
		result[i] = FromDataModel(t)
	}
	return result
}
