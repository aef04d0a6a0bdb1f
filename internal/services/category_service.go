package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidCategoryName = errors.New("category name cannot be empty")
)

// CategoryService provides business logic for task categories.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a labeling tag scoped to a project.
func (s *CategoryService) CreateCategory(projectID, actorID, name, color string) (*models.TaskCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCategoryName
	}

	category := &models.TaskCategory{
		Name:      strings.TrimSpace(name),
		Color:     color,
		ProjectID: projectID,
		CreatedBy: actorID,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories returns a project's categories.
func (s *CategoryService) ListCategories(projectID string) ([]models.TaskCategory, error) {
	categories, err := s.categoryRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames or recolors a category.
func (s *CategoryService) UpdateCategory(categoryID, name, color string) (*models.TaskCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidCategoryName
	}

	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	category.Name = strings.TrimSpace(name)
	category.Color = color
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category. Tasks that reference it are left
// untouched; the dangling category_id reads as "no category".
func (s *CategoryService) DeleteCategory(categoryID string) error {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to find category: %w", err)
	}

	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
