package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamplane/board-api/internal/constants"
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/repository"
	"github.com/teamplane/board-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound            = errors.New("project not found")
	ErrInvalidProjectName         = errors.New("project name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyProjectMember       = errors.New("user is already a member of this project")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the project")
	ErrProjectMemberNotFound      = errors.New("project member not found")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
	OwnerID     string
}

// CreateProject seeds a new project: the project row, the four default
// columns, and the owner membership land in one transaction, so task
// creation always finds at least one column and the creator is always a
// member.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	project := &models.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Color:       input.Color,
		InviteCode:  inviteCode,
		CreatedBy:   input.OwnerID,
	}

	columns := make([]models.BoardColumn, len(constants.DefaultColumns))
	for i, c := range constants.DefaultColumns {
		columns[i] = models.BoardColumn{
			Title:    c.Title,
			Color:    c.Color,
			Position: c.Position,
		}
	}

	owner := &models.ProjectMember{
		UserID:   input.OwnerID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithDefaults(project, columns, owner); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns the memberships (with projects) of a user.
func (s *ProjectService) ListProjectsForUser(userID string) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// GetProjectWithMembers returns a project and a page of its members with the
// total member count.
func (s *ProjectService) GetProjectWithMembers(projectID string, params utils.PaginationParams) (*models.Project, []models.ProjectMember, int64, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, ErrProjectNotFound
		}
		return nil, nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	members, total, err := s.projectRepo.ListMembers(projectID, params)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list project members: %w", err)
	}

	return project, members, total, nil
}

// UpdateProject updates a project's name, description, and color.
func (s *ProjectService) UpdateProject(projectID, name, description, color string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidProjectName
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	project.Name = strings.TrimSpace(name)
	project.Description = description
	project.Color = color
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything it owns.
func (s *ProjectService) DeleteProject(projectID string) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// JoinProjectByInvite adds a user to a project via invite code, as an editor.
func (s *ProjectService) JoinProjectByInvite(userID, inviteCode string) (*models.Project, error) {
	project, err := s.projectRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find project by invite code: %w", err)
	}

	if _, err := s.projectRepo.FindMember(project.ID, userID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      models.RoleEditor,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}

	return project, nil
}

// RegenerateInviteCode generates a new invite code for the project.
func (s *ProjectService) RegenerateInviteCode(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	project.InviteCode = code
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return project, nil
}

// RemoveMember removes a member from the project.
func (s *ProjectService) RemoveMember(projectID, actorID, targetID string) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.projectRepo.FindMember(projectID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}
