package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/dto"
	apierrors "github.com/teamplane/board-api/internal/errors"
	"github.com/teamplane/board-api/internal/middleware"
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/services"
	"github.com/teamplane/board-api/internal/utils"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a project together with its default columns and the
// creator's owner membership.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		OwnerID:     userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidProjectName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project, true))
}

// ListProjects returns the projects the authenticated user belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.projectService.ListProjectsForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	projects := make([]dto.ProjectDTO, 0, len(memberships))
	for _, m := range memberships {
		projects = append(projects, dto.ToProjectDTO(m.Project, m.Role == models.RoleOwner))
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns a single project with its member list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID := c.Param("id")
	role, _ := middleware.GetProjectRole(c)

	params := utils.GetPaginationParams(c)
	project, members, total, err := h.projectService.GetProjectWithMembers(projectID, params)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to load project")
		return
	}

	memberDTOs := make([]dto.MemberDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToMemberDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"project": dto.ToProjectDTO(*project, role == models.RoleOwner),
		"members": memberDTOs,
		"role":    role,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UpdateProject renames or recolors a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID := c.Param("id")

	type UpdateProjectRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, req.Name, req.Description, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrInvalidProjectName):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update project")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, true))
}

// DeleteProject removes a project and everything under it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID := c.Param("id")

	if err := h.projectService.DeleteProject(projectID); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// JoinProject adds the authenticated user to a project by invite code.
func (h *ProjectHandler) JoinProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	project, err := h.projectService.JoinProjectByInvite(userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode):
			apierrors.NotFound(c, "Invalid invite code")
		case errors.Is(err, services.ErrAlreadyProjectMember):
			apierrors.Conflict(c, "Already a member of this project")
		default:
			apierrors.InternalError(c, "Failed to join project")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, false))
}

// RegenerateInviteCode replaces the project's invite code.
func (h *ProjectHandler) RegenerateInviteCode(c *gin.Context) {
	projectID := c.Param("id")

	project, err := h.projectService.RegenerateInviteCode(projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to regenerate invite code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": project.InviteCode})
}

// RemoveMember removes another member from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")
	targetID := c.Param("user_id")

	if err := h.projectService.RemoveMember(projectID, userID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotRemoveYourself):
			apierrors.BadRequest(c, "You cannot remove yourself from the project")
		case errors.Is(err, services.ErrProjectMemberNotFound):
			apierrors.NotFound(c, "Member not found")
		default:
			apierrors.InternalError(c, "Failed to remove member")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
