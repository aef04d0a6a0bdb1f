package dto

import (
	"time"

	"github.com/teamplane/board-api/internal/board"
	"github.com/teamplane/board-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// CategoryDTO represents a task category in API responses
type CategoryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ColumnID    string              `json:"column_id"`
	ProjectID   string              `json:"project_id"`
	AssigneeID  *string             `json:"assignee_id"`
	CategoryID  *string             `json:"category_id"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	Position    int                 `json:"position"`
	CreatedBy   string              `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignee    *UserDTO            `json:"assignee,omitempty"`
	Category    *CategoryDTO        `json:"category,omitempty"`
}

// ColumnDTO represents a column with its ordered tasks
type ColumnDTO struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Color    string    `json:"color"`
	Position int       `json:"position"`
	Tasks    []TaskDTO `json:"tasks"`
}

// BoardDTO is the full column+task state for one project
type BoardDTO struct {
	ProjectID string      `json:"project_id"`
	Columns   []ColumnDTO `json:"columns"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	}
}

// ToCategoryDTO converts a TaskCategory model to CategoryDTO
func ToCategoryDTO(category models.TaskCategory) CategoryDTO {
	return CategoryDTO{
		ID:    category.ID,
		Name:  category.Name,
		Color: category.Color,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		ColumnID:    task.ColumnID,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CategoryID:  task.CategoryID,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Position:    task.Position,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include relations only when the enriched fetch resolved them
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	return dto
}

// ToBoardDTO converts the store's column state into the board response
func ToBoardDTO(projectID string, columns []board.ColumnState) BoardDTO {
	out := BoardDTO{
		ProjectID: projectID,
		Columns:   make([]ColumnDTO, len(columns)),
	}
	for i, col := range columns {
		tasks := make([]TaskDTO, len(col.Tasks))
		for j, task := range col.Tasks {
			tasks[j] = ToTaskDTO(task)
		}
		out.Columns[i] = ColumnDTO{
			ID:       col.ID,
			Title:    col.Title,
			Color:    col.Color,
			Position: col.Position,
			Tasks:    tasks,
		}
	}
	return out
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task)
	}
	return out
}
