package board

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/teamplane/board-api/internal/models"
)

// SortOption selects a display ordering for the list view.
type SortOption string

const (
	SortUrgency  SortOption = "urgency"
	SortDeadline SortOption = "deadline"
	SortCreated  SortOption = "created"
	SortTitle    SortOption = "title"
)

// ParseSortOption maps a query value to a SortOption, defaulting to urgency.
func ParseSortOption(v string) SortOption {
	switch SortOption(v) {
	case SortDeadline, SortCreated, SortTitle:
		return SortOption(v)
	default:
		return SortUrgency
	}
}

// SortTasks returns a copy of tasks in display order. The input slice and
// its tasks are never mutated: the store's own column-grouped arrays keep
// their insertion order for kanban rendering.
//
// Orderings:
//   - urgency: priority descending, then due date ascending among equals,
//     tasks without a due date after those with one, otherwise encountered
//     order
//   - deadline: due date ascending, no due date last
//   - created: newest first
//   - title: lexicographic ascending, locale-aware
func SortTasks(tasks []models.Task, option SortOption) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	var less func(a, b *models.Task) bool
	switch option {
	case SortDeadline:
		less = byDeadline
	case SortCreated:
		less = func(a, b *models.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortTitle:
		collator := collate.New(language.Und, collate.IgnoreCase)
		less = func(a, b *models.Task) bool {
			return collator.CompareString(a.Title, b.Title) < 0
		}
	default:
		less = byUrgency
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

func byUrgency(a, b *models.Task) bool {
	aw, bw := a.Priority.Weight(), b.Priority.Weight()
	if aw != bw {
		return aw > bw
	}
	return byDeadline(a, b)
}

func byDeadline(a, b *models.Task) bool {
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Before(*b.DueDate)
	case a.DueDate != nil:
		return true
	default:
		return false
	}
}
