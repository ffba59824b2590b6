package postgres

import (
	projectDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/project"
	"github.com/frahmantamala/timesheet-management/internal/project"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetAll() ([]*project.ProjectCode, error) {
	var rows []*projectDatamodel.ProjectCode
	err := r.db.Order("code ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return project.FromDataModelSlice(rows), nil
}

func (r *ProjectRepository) GetByID(id int64) (*project.ProjectCode, error) {
	var row projectDatamodel.ProjectCode
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return project.FromDataModel(&row), nil
}

func (r *ProjectRepository) GetByCode(code string) (*project.ProjectCode, error) {
	var row projectDatamodel.ProjectCode
	err := r.db.Where("code = ?", code).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return project.FromDataModel(&row), nil
}

func (r *ProjectRepository) Create(code *project.ProjectCode) error {
	row := project.ToDataModel(code)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	code.ID = row.ID
	return nil
}

func (r *ProjectRepository) Update(code *project.ProjectCode) error {
	return r.db.Save(project.ToDataModel(code)).Error
}

func (r *ProjectRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&projectDatamodel.ProjectCode{}).Error
}
