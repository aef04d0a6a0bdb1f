package repository

import (
	"github.com/teamplane/board-api/internal/database"
	"github.com/teamplane/board-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// ListColumns returns a project's columns ordered by position ascending
func (r *GormBoardRepository) ListColumns(projectID string) ([]models.BoardColumn, error) {
	var columns []models.BoardColumn
	err := r.db.
		Scopes(database.ByProject(projectID)).
		Order("position ASC").
		Find(&columns).Error
	return columns, err
}

// ListTasksEnriched returns a project's tasks with assignee and category
// resolved. A task whose category was deleted comes back with a nil Category;
// the row itself is never dropped.
func (r *GormBoardRepository) ListTasksEnriched(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Assignee").
		Preload("Category").
		Scopes(database.ByProject(projectID)).
		Order("position ASC").
		Find(&tasks).Error
	return tasks, err
}

// ListTasks is the reduced-projection fallback without joins
func (r *GormBoardRepository) ListTasks(projectID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Scopes(database.ByProject(projectID)).
		Order("position ASC").
		Find(&tasks).Error
	return tasks, err
}

// FindColumn finds a column by ID
func (r *GormBoardRepository) FindColumn(columnID string) (*models.BoardColumn, error) {
	var column models.BoardColumn
	if err := r.db.First(&column, "id = ?", columnID).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// FindTask finds a task by ID
func (r *GormBoardRepository) FindTask(taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask persists a new task at the tail of its column
func (r *GormBoardRepository) CreateTask(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var next int64
		err := tx.Model(&models.Task{}).
			Where("column_id = ?", task.ColumnID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}

		task.Position = int(next)
		return tx.Create(task).Error
	})
}

// UpdateTaskFields applies a partial update to a task
func (r *GormBoardRepository) UpdateTaskFields(taskID string, fields map[string]interface{}) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(fields).Error
}

// MoveTask changes only the task's owning column
func (r *GormBoardRepository) MoveTask(taskID, columnID string) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("column_id", columnID).Error
}

// DeleteTask removes a task
func (r *GormBoardRepository) DeleteTask(taskID string) error {
	return r.db.Delete(&models.Task{}, "id = ?", taskID).Error
}
