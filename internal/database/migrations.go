package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate creates
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board reads: tasks are always fetched per project or per column,
		// ordered by position. The columns table already carries a unique
		// (project_id, position) index from AutoMigrate.
		{"tasks", "idx_tasks_column_position", "column_id, position"},
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		// Membership lookups
		{"project_members", "idx_project_members_project_id", "project_id"},
		{"project_members", "idx_project_members_user_id", "user_id"},

		// Category listing per project
		{"task_categories", "idx_task_categories_project_id", "project_id"},
	}

	for _, idx := range indexes {
		// Migrator().HasIndex resolves per dialect, so the same check works
		// for postgres, mysql and the sqlite test databases.
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
