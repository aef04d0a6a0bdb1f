package repository

import (
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/utils"
)

// BoardRepository defines data access for a project's columns and tasks.
type BoardRepository interface {
	// ListColumns returns a project's columns ordered by position ascending
	ListColumns(projectID string) ([]models.BoardColumn, error)

	// ListTasksEnriched returns a project's tasks ordered by position
	// ascending with assignee and category relations resolved
	ListTasksEnriched(projectID string) ([]models.Task, error)

	// ListTasks is the reduced-projection fallback: raw task rows only,
	// ordered by position ascending
	ListTasks(projectID string) ([]models.Task, error)

	// FindColumn finds a column by ID
	FindColumn(columnID string) (*models.BoardColumn, error)

	// FindTask finds a task by ID
	FindTask(taskID string) (*models.Task, error)

	// CreateTask persists a new task, assigning it the next position in its
	// column
	CreateTask(task *models.Task) error

	// UpdateTaskFields applies a partial update to a task
	UpdateTaskFields(taskID string, fields map[string]interface{}) error

	// MoveTask changes only the task's owning column
	MoveTask(taskID, columnID string) error

	// DeleteTask removes a task
	DeleteTask(taskID string) error
}

// ProjectRepository defines data access for projects and membership.
type ProjectRepository interface {
	// CreateWithDefaults creates a project, its default columns, and the
	// owner membership within a single transaction
	CreateWithDefaults(project *models.Project, columns []models.BoardColumn, owner *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id string) (*models.Project, error)

	// FindByInviteCode finds a project by invite code
	FindByInviteCode(code string) (*models.Project, error)

	// ListByUserID lists the memberships of a user
	ListByUserID(userID string) ([]models.ProjectMember, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and cascades to its columns, tasks,
	// categories, and members
	Delete(id string) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID string) error

	// FindMember finds a specific project member
	FindMember(projectID, userID string) (*models.ProjectMember, error)

	// ListMembers lists a page of project members together with the total
	// member count
	ListMembers(projectID string, params utils.PaginationParams) ([]models.ProjectMember, int64, error)
}

// CategoryRepository defines data access for task categories.
type CategoryRepository interface {
	Create(category *models.TaskCategory) error
	FindByID(id string) (*models.TaskCategory, error)
	ListByProject(projectID string) ([]models.TaskCategory, error)
	Update(category *models.TaskCategory) error

	// Delete removes a category. Tasks referencing it keep their category_id;
	// consumers treat the dangling reference as "no category".
	Delete(id string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
}
