package project

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
)

// ProjectCode is a short identifier for a billable or trackable stream
// of work, referenced by timesheet entries.
type ProjectCode struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrNotFound      = internal.NewNotFoundError("project code not found", internal.ErrCodeProjectCodeNotFound)
	ErrDuplicateCode = internal.NewConflictError("project code already exists", internal.ErrCodeDuplicateProjectCode)
	ErrInUse         = internal.NewConflictError("project code is referenced by existing timesheets", internal.ErrCodeProjectCodeInUse)
)

func ToDataModel(p *ProjectCode) *projectDatamodel.ProjectCode {
	return &projectDatamodel.ProjectCode{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.ProjectCode) *ProjectCode {
	return &ProjectCode{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModelSlice(codes []*projectDatamodel.ProjectCode) []*ProjectCode {
	result := make([]*ProjectCode, len(codes))
	for i, p := range codes {
		result[i] = FromDataModel(p)
	}
	return result
}
