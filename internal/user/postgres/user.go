package postgres

import (
	userDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Order("username ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(rows), nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("username = ?", username).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepository) Create(u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	u.ID = row.ID
	return nil
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(user.ToDataModel(u)).Error
}

func (r *UserRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
}
