package repository

import (
	"github.com/teamplane/board-api/internal/database"
	"github.com/teamplane/board-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *models.TaskCategory) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) FindByID(id string) (*models.TaskCategory, error) {
	var category models.TaskCategory
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) ListByProject(projectID string) ([]models.TaskCategory, error) {
	var categories []models.TaskCategory
	err := r.db.
		Scopes(database.ByProject(projectID)).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Update(category *models.TaskCategory) error {
	return r.db.Save(category).Error
}

// Delete removes the category row only. Tasks keep their category_id and the
// enriched board fetch resolves the dangling reference to a nil Category.
func (r *GormCategoryRepository) Delete(id string) error {
	return r.db.Delete(&models.TaskCategory{}, "id = ?", id).Error
}
