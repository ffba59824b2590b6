package project

import "github.com/frahmantamala/timesheet-management/internal/core/common/validation"

// ProjectCodeDTO is the request payload for creating or modifying a project
// code.
type ProjectCodeDTO struct {
	Code        string  `json:"code"`
	Description *string `json:"description,omitempty"`
}

func (dto ProjectCodeDTO) Validate() error {
	if err := validation.ValidateProjectCode(dto.Code); err != nil {
		return err
	}
	return nil
}

type ProjectCodesResponse struct {
	ProjectCodes []*ProjectCode `json:"project_codes"`
}
