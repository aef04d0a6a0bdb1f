package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/dto"
	apierrors "github.com/teamplane/board-api/internal/errors"
	"github.com/teamplane/board-api/internal/middleware"
	"github.com/teamplane/board-api/internal/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// CreateCategory adds a task category to the project.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	category, err := h.categoryService.CreateCategory(projectID, userID, req.Name, req.Color)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategoryName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// ListCategories lists the project's categories.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	projectID := c.Param("id")

	categories, err := h.categoryService.ListCategories(projectID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list categories")
		return
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.ToCategoryDTO(cat))
	}

	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// UpdateCategory renames or recolors a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.Param("category_id")

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			apierrors.NotFound(c, "Category not found")
		case errors.Is(err, services.ErrInvalidCategoryName):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to update category")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory removes a category. Tasks that referenced it keep their
// dangling category id and render as uncategorized.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("category_id")

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			apierrors.NotFound(c, "Category not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
