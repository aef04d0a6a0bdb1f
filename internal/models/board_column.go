package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardColumn is a named ordered lane of tasks within a project.
// Position is the ordering key, unique within the project.
type BoardColumn struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Color     string    `gorm:"type:varchar(50)" json:"color"`
	Position  int       `gorm:"not null;uniqueIndex:idx_columns_project_position" json:"position"`
	ProjectID string    `gorm:"type:uuid;not null;uniqueIndex:idx_columns_project_position;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ColumnID" json:"tasks,omitempty"`
}

func (c *BoardColumn) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
