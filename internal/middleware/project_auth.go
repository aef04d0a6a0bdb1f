package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/database"
	apierrors "github.com/teamplane/board-api/internal/errors"
	"github.com/teamplane/board-api/internal/models"
)

const contextKeyProjectRole = "project_role"

// RequireProjectAccess checks if the user is a member of the project named
// by the :id route parameter. Non-members get 404 rather than 403 to avoid
// leaking project existence.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")
		if projectID == "" {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var member models.ProjectMember
		err := database.GetDB().
			Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(contextKeyProjectRole, member.Role)
		c.Next()
	}
}

// RequireProjectEditor rejects viewers; owners and editors pass.
func RequireProjectEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetProjectRole(c)
		if !ok || role == models.RoleViewer {
			apierrors.Forbidden(c, "This action requires editor access")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireProjectOwner rejects everyone but the owner.
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetProjectRole(c)
		if !ok || role != models.RoleOwner {
			apierrors.Forbidden(c, "This action requires project ownership")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetProjectRole retrieves the requesting user's role in the project from
// context, set by RequireProjectAccess.
func GetProjectRole(c *gin.Context) (models.ProjectRole, bool) {
	value, exists := c.Get(contextKeyProjectRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.ProjectRole)
	return role, ok
}
