package timesheet

import "time"

type Timesheet struct {
	ID            int64      `gorm:"primaryKey"`
	UserID        int64      `gorm:"column:user_id;not null;index"`
	ProjectCodeID int64      `gorm:"column:project_code_id;not null;index"`
	BatchID       string     `gorm:"column:batch_id;index"`
	EntryDate     time.Time  `gorm:"column:entry_date;type:date;not null"`
	Hours         float64    `gorm:"column:hours;not null"`
	Status        string     `gorm:"column:status;not null;default:pending;index"`
	Comments      *string    `gorm:"column:comments"`
	SubmittedAt   time.Time  `gorm:"column:submitted_at"`
	ProcessedAt   *time.Time `gorm:"column:processed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
