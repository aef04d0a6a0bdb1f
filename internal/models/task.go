package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Weight maps a priority to its urgency rank. Unknown values rank below low
// so malformed rows sort last rather than breaking the ordering.
func (p TaskPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task belongs to exactly one column at all times. ProjectID is denormalized
// for filtering and must always match the owning column's project.
// CategoryID carries no foreign key constraint on purpose: deleting a category
// leaves referencing tasks untouched and consumers treat a dangling id as
// "no category".
type Task struct {
	ID          string       `gorm:"type:uuid;primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ColumnID    string       `gorm:"type:uuid;not null;index" json:"column_id"`
	ProjectID   string       `gorm:"type:uuid;not null;index" json:"project_id"`
	AssigneeID  *string      `gorm:"type:uuid" json:"assignee_id"`
	CategoryID  *string      `gorm:"type:uuid" json:"category_id"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	Position    int          `gorm:"not null" json:"position"`
	CreatedBy   string       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations, populated only by the enriched fetch path
	Assignee *User         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Category *TaskCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}
