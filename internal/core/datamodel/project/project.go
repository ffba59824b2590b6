package project

import "time"

type ProjectCode struct {
	ID          int64     `gorm:"primaryKey"`
	Code        string    `gorm:"column:code;uniqueIndex;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProjectCode) TableName() string {
	return "project_codes"
}
