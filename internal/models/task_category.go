package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskCategory is a labeling tag scoped to a project.
type TaskCategory struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Color     string    `gorm:"type:varchar(50)" json:"color"`
	ProjectID string    `gorm:"type:uuid;not null;index" json:"project_id"`
	CreatedBy string    `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *TaskCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
