package user

import (
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
)

// User is an account that can log in. Role is either "user" or "manager";
// there is no password in this identity model.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound          = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrDuplicateUsername = internal.NewConflictError("username already exists", internal.ErrCodeDuplicateUsername)
	ErrInUse             = internal.NewConflictError("user is referenced by existing timesheets", internal.ErrCodeUserInUse)
	ErrLastManager       = internal.NewConflictError("cannot remove the last manager", internal.ErrCodeLastManager)
)

func (u *User) IsManager() bool {
	return u.Role == internal.RoleManager
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
