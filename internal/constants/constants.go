package constants

import "time"

// Session / context keys
const (
	ContextKeyUserID = "user_id"
)

// Auth
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Draft persistence
const (
	// DraftDebounce coalesces rapid form edits into a single persisted write.
	DraftDebounce = 500 * time.Millisecond
	// DraftTTL bounds how long an abandoned draft is retained.
	DraftTTL = 7 * 24 * time.Hour
	// DraftKeyNew is the task key used for not-yet-created tasks.
	DraftKeyNew = "new"
)

// DefaultColumn describes one of the lanes seeded with every new project.
type DefaultColumn struct {
	Title    string
	Color    string
	Position int
}

// DefaultColumns are created atomically with the project itself, so task
// creation always has at least one column to target.
var DefaultColumns = []DefaultColumn{
	{Title: "To Do", Color: "#e5e7eb", Position: 0},
	{Title: "In Progress", Color: "#bfdbfe", Position: 1},
	{Title: "Review", Color: "#fef08a", Position: 2},
	{Title: "Done", Color: "#bbf7d0", Position: 3},
}
