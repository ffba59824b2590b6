package postgres

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/timesheet-management/internal"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByUsernameAndRole(username, role string) (*internal.SessionUser, error) {
	var user internal.SessionUser
	query := `SELECT id, username, role FROM users WHERE username = ? AND role = ?`

	row := r.db.Raw(query, username, role).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByID(userID int64) (*internal.SessionUser, error) {
	var user internal.SessionUser
	query := `SELECT id, username, role FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}
