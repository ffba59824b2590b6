package user

import (
	"github.com/frahmantamala/timesheet-management/internal/core/common/validation"
)

// UserDTO is the request payload for creating or modifying a user.
type UserDTO struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (dto UserDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("username", dto.Username).
		Required().
		MaxLength(64)
	if err := validator.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateRole(dto.Role); err != nil {
		return err
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
