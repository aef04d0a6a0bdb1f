package repository

import (
	"errors"
	"fmt"

	"github.com/teamplane/board-api/internal/database"
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateProject is returned when creating the project row fails inside the seeding transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateColumns is returned when creating the default columns fails inside the seeding transaction.
	ErrCreateColumns = errors.New("project repository: create default columns failed")
	// ErrCreateOwner is returned when creating the owner membership fails inside the seeding transaction.
	ErrCreateOwner = errors.New("project repository: create owner membership failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithDefaults creates the project, its default columns, and the owner
// membership atomically. A failure at any step rolls the whole seeding back,
// so a project is never observable without columns or an owner.
func (r *GormProjectRepository) CreateWithDefaults(project *models.Project, columns []models.BoardColumn, owner *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		for i := range columns {
			columns[i].ProjectID = project.ID
		}
		if err := tx.Create(&columns).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateColumns, err)
		}

		owner.ProjectID = project.ID
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOwner, err)
		}

		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByInviteCode finds a project by invite code
func (r *GormProjectRepository) FindByInviteCode(code string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("invite_code = ?", code).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUserID lists the memberships of a user with projects preloaded
func (r *GormProjectRepository) ListByUserID(userID string) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	err := r.db.
		Preload("Project").
		Where("user_id = ?", userID).
		Find(&memberships).Error
	return memberships, err
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and everything it owns
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.BoardColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.TaskCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID string) error {
	return r.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID string) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists a page of project members with user profiles preloaded
func (r *GormProjectRepository) ListMembers(projectID string, params utils.PaginationParams) ([]models.ProjectMember, int64, error) {
	var total int64
	if err := r.db.Model(&models.ProjectMember{}).
		Scopes(database.ByProject(projectID)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.ProjectMember
	err := r.db.
		Preload("User").
		Scopes(database.ByProject(projectID), database.Paginate(params)).
		Order("joined_at ASC").
		Find(&members).Error
	return members, total, err
}
