package postgres

import (
	"time"

	timesheetDatamodel "github.com/frahmantamala/timesheet-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/timesheet-management/internal/timesheet"
	"gorm.io/gorm"
)

// TimesheetRepository implements the timesheet.Repository interface using GORM
type TimesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository creates a new timesheet repository. The concrete
// type is returned because it also serves as the reference counter for the
// project and user services.
func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

var _ timesheet.Repository = (*TimesheetRepository)(nil)

// CreateBatch inserts all rows of a weekly submission in one transaction.
// Either every entry is committed or none is.
func (r *TimesheetRepository) CreateBatch(entries []*timesheet.Timesheet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			row := timesheet.ToDataModel(entry)
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			entry.ID = row.ID
		}
		return nil
	})
}

// GetByID retrieves a timesheet by its ID
func (r *TimesheetRepository) GetByID(id int64) (*timesheet.Timesheet, error) {
	var row timesheetDatamodel.Timesheet
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, err
	}
	return timesheet.FromDataModel(&row), nil
}

// GetByUserID retrieves all entries of one user, newest entry date first.
func (r *TimesheetRepository) GetByUserID(userID int64) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

// GetRejectedByUserID retrieves one user's rejected entries.
func (r *TimesheetRepository) GetRejectedByUserID(userID int64) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.Where("user_id = ? AND status = ?", userID, timesheet.StatusRejected).
		Order("entry_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

// GetPending retrieves entries awaiting review with pagination.
func (r *TimesheetRepository) GetPending(limit, offset int) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.Where("status = ?", timesheet.StatusPending).
		Order("submitted_at ASC"). // FIFO for review
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

// Update replaces project code, date and hours, scoped to the owner. Zero
// affected rows reports ErrTimesheetNotFound instead of a silent no-op.
func (r *TimesheetRepository) Update(entry *timesheet.Timesheet, ownerID int64) error {
	result := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("id = ? AND user_id = ?", entry.ID, ownerID).
		Updates(map[string]interface{}{
			"project_code_id": entry.ProjectCodeID,
			"entry_date":      entry.EntryDate,
			"hours":           entry.Hours,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// Delete removes an entry scoped to the owner, with the same zero-row
// semantics as Update.
func (r *TimesheetRepository) Delete(id, ownerID int64) error {
	result := r.db.Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&timesheetDatamodel.Timesheet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// UpdateStatus updates status, comments and processed_at in one statement.
func (r *TimesheetRepository) UpdateStatus(id int64, status string, comments *string, processedAt *time.Time) error {
	result := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"comments":     comments,
			"processed_at": processedAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// UpdateForResubmit sets new hours and returns the entry to pending, leaving
// the prior rejection comment untouched.
func (r *TimesheetRepository) UpdateForResubmit(id int64, hours float64) error {
	result := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"hours":        hours,
			"status":       timesheet.StatusPending,
			"processed_at": nil,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// CountByProjectCodeID reports how many timesheets reference a project code,
// used by the referential guard before project code deletion.
func (r *TimesheetRepository) CountByProjectCodeID(projectCodeID int64) (int64, error) {
	var count int64
	err := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("project_code_id = ?", projectCodeID).
		Count(&count).Error
	return count, err
}

// CountByUserID reports how many timesheets reference a user, used by the
// referential guard before user deletion.
func (r *TimesheetRepository) CountByUserID(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&timesheetDatamodel.Timesheet{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
