package board

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/repository"
)

var (
	ErrNoActingUser   = errors.New("board: acting user is required")
	ErrTitleRequired  = errors.New("board: title is required")
	ErrColumnRequired = errors.New("board: column is required")
	ErrNoColumns      = errors.New("board: project has no columns")
	ErrTaskNotFound   = errors.New("board: task not found on this board")
	ErrColumnNotFound = errors.New("board: column not found on this board")
	ErrStoreClosed    = errors.New("board: store is closed")
)

// ColumnState is a column together with its ordered task list. Task order
// within a column is meaningful: load order by position, then append order
// from moves and creation.
type ColumnState struct {
	models.BoardColumn
	Tasks []models.Task
}

// Store owns the authoritative in-memory view of one project's board and
// mediates all reads and writes against the backing repository.
//
// Operations are not serialized against each other: a move applies its local
// mutation to whatever the state is at call time, and a load settling later
// replaces the whole column set with server truth (last settled wins).
type Store struct {
	projectID string
	repo      repository.BoardRepository
	notifier  Notifier

	mu      sync.Mutex
	columns []ColumnState
	loading bool
	loaded  bool
	closed  bool
}

// NewStore creates a Store for a single project.
func NewStore(projectID string, repo repository.BoardRepository, notifier Notifier) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		projectID: projectID,
		repo:      repo,
		notifier:  notifier,
	}
}

// ProjectID returns the project this store belongs to.
func (s *Store) ProjectID() string { return s.projectID }

// Loading reports whether an initial or refresh load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Loaded reports whether at least one load has committed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Columns returns a snapshot of the current column state. The returned
// slices are copies; mutating them does not affect the store.
func (s *Store) Columns() []ColumnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneColumns(s.columns)
}

// Tasks returns every task on the board in column order.
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tasks []models.Task
	for _, col := range s.columns {
		tasks = append(tasks, col.Tasks...)
	}
	return tasks
}

// Close marks the store as no longer owned by a mounted view. Results of
// in-flight loads arriving afterwards are discarded instead of committed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load fetches columns and tasks and replaces the in-memory state in a
// single swap. The enriched task query resolves assignee and category; when
// it fails the reduced query is used instead so the board still renders with
// those fields absent. Loading settles to false whether the load succeeds or
// not, and a failed refresh leaves previously loaded state in place.
func (s *Store) Load(actorID string) error {
	if actorID == "" {
		return ErrNoActingUser
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	columns, err := s.repo.ListColumns(s.projectID)
	if err != nil {
		s.notifier.Notify("Error fetching board data", err.Error(), true)
		return fmt.Errorf("failed to fetch columns: %w", err)
	}

	tasks, err := s.repo.ListTasksEnriched(s.projectID)
	if err != nil {
		// Fall back to raw task rows so the board renders with partial
		// information rather than nothing.
		tasks, err = s.repo.ListTasks(s.projectID)
		if err != nil {
			s.notifier.Notify("Error fetching board data", err.Error(), true)
			return fmt.Errorf("failed to fetch tasks: %w", err)
		}
	}

	next := make([]ColumnState, len(columns))
	for i, col := range columns {
		next[i] = ColumnState{BoardColumn: col, Tasks: []models.Task{}}
		for _, task := range tasks {
			if task.ColumnID == col.ID {
				next[i].Tasks = append(next[i].Tasks, task)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// The owning view went away while the fetch was in flight.
		return ErrStoreClosed
	}
	s.columns = next
	s.loaded = true
	return nil
}

// CreateTaskInput carries the fields of a new task. CategoryID and
// AssigneeID accept the form-layer "none"/"" sentinels and are normalized
// before persistence.
type CreateTaskInput struct {
	Title       string
	Description string
	ColumnID    string
	Priority    models.TaskPriority
	DueDate     *time.Time
	CategoryID  string
	AssigneeID  string
}

// CreateTask persists a new task and then reloads the whole board so
// positions and enrichment come back server-computed.
func (s *Store) CreateTask(actorID string, input CreateTaskInput) (*models.Task, error) {
	if actorID == "" {
		return nil, ErrNoActingUser
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	// Task creation is only meaningful against a board with columns.
	// Default seeding guarantees this for well-formed projects; refuse
	// cleanly if the guarantee was violated.
	columns, err := s.boardColumns()
	if err != nil {
		s.notifier.Notify("Error creating task", err.Error(), true)
		return nil, fmt.Errorf("failed to verify columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if input.ColumnID == "" {
		return nil, ErrColumnRequired
	}
	if !containsColumn(columns, input.ColumnID) {
		s.notifier.Notify("Error creating task", "Column does not belong to this project.", true)
		return nil, ErrColumnNotFound
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ColumnID:    input.ColumnID,
		ProjectID:   s.projectID,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CategoryID:  NormalizeRef(input.CategoryID),
		AssigneeID:  NormalizeRef(input.AssigneeID),
		CreatedBy:   actorID,
	}

	if err := s.repo.CreateTask(task); err != nil {
		s.notifier.Notify("Error creating task", err.Error(), true)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.notifier.Notify("Task created", "New task has been created successfully.", false)

	// Full reload rather than local append: fresh positions and joins at
	// the cost of a round trip. A reload failure is reported through the
	// notifier by Load itself and does not fail the creation.
	_ = s.Load(actorID)

	return task, nil
}

// UpdateTaskInput carries a partial task update. Nil pointers mean "leave
// unchanged". CategoryID and AssigneeID values go through sentinel
// normalization, so "none"/"" clear the reference.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	ColumnID     *string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	CategoryID   *string
	AssigneeID   *string
}

// UpdateTask persists a partial update. It does not reload; callers decide
// whether to refresh derived views.
func (s *Store) UpdateTask(actorID, taskID string, input UpdateTaskInput) error {
	if actorID == "" {
		return ErrNoActingUser
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return ErrTitleRequired
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ColumnID != nil {
		// A column from another project is never a valid target, same as
		// for moves.
		columns, err := s.boardColumns()
		if err != nil {
			s.notifier.Notify("Error updating task", err.Error(), true)
			return fmt.Errorf("failed to verify columns: %w", err)
		}
		if !containsColumn(columns, *input.ColumnID) {
			s.notifier.Notify("Error updating task", "Column does not belong to this project.", true)
			return ErrColumnNotFound
		}
		fields["column_id"] = *input.ColumnID
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.ClearDueDate {
		fields["due_date"] = nil
	} else if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}
	if input.CategoryID != nil {
		fields["category_id"] = NormalizeRef(*input.CategoryID)
	}
	if input.AssigneeID != nil {
		fields["assignee_id"] = NormalizeRef(*input.AssigneeID)
	}

	if len(fields) == 0 {
		return nil
	}

	if err := s.repo.UpdateTaskFields(taskID, fields); err != nil {
		s.notifier.Notify("Error updating task", err.Error(), true)
		return fmt.Errorf("failed to update task: %w", err)
	}

	s.notifier.Notify("Task updated", "Task has been updated successfully.", false)
	return nil
}

// MoveTask reassigns a task to another column on the same board. The local
// mutation is applied optimistically ahead of persistence; if persistence
// fails the prior state is restored and the failure reported.
//
// Moving a task onto its current column is a no-op: no state change and no
// persistence call.
func (s *Store) MoveTask(actorID, taskID, newColumnID string) error {
	if actorID == "" {
		return ErrNoActingUser
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}

	// Locate by searching every column: the caller may not know the task's
	// current column at call time.
	var task *models.Task
	for i := range s.columns {
		for j := range s.columns[i].Tasks {
			if s.columns[i].Tasks[j].ID == taskID {
				t := s.columns[i].Tasks[j]
				task = &t
			}
		}
	}
	if task == nil {
		s.mu.Unlock()
		s.notifier.Notify("Error moving task", "Task not found on this board.", true)
		return ErrTaskNotFound
	}

	if task.ColumnID == newColumnID {
		s.mu.Unlock()
		return nil
	}

	// A column from another project is never a valid destination.
	destination := -1
	for i := range s.columns {
		if s.columns[i].ID == newColumnID {
			destination = i
		}
	}
	if destination == -1 {
		s.mu.Unlock()
		s.notifier.Notify("Error moving task", "Destination column does not belong to this project.", true)
		return ErrColumnNotFound
	}

	snapshot := cloneColumns(s.columns)

	// Remove the task from every column's list, not just its recorded one:
	// idempotent, and defensive against a duplicate left by a prior bug.
	next := make([]ColumnState, len(s.columns))
	for i, col := range s.columns {
		next[i] = ColumnState{BoardColumn: col.BoardColumn}
		next[i].Tasks = make([]models.Task, 0, len(col.Tasks))
		for _, t := range col.Tasks {
			if t.ID != taskID {
				next[i].Tasks = append(next[i].Tasks, t)
			}
		}
	}

	moved := *task
	moved.ColumnID = newColumnID
	next[destination].Tasks = append(next[destination].Tasks, moved)

	// Single swap: readers never observe the task missing from all columns.
	s.columns = next
	s.mu.Unlock()

	if err := s.repo.MoveTask(taskID, newColumnID); err != nil {
		s.mu.Lock()
		if !s.closed {
			s.columns = snapshot
		}
		s.mu.Unlock()
		s.notifier.Notify("Error moving task", err.Error()+" The move was rolled back.", true)
		return fmt.Errorf("failed to move task: %w", err)
	}

	s.notifier.Notify("Task moved", "Task has been moved successfully.", false)
	return nil
}

// boardColumns returns this project's columns, from memory once a load has
// committed, otherwise from the repository.
func (s *Store) boardColumns() ([]models.BoardColumn, error) {
	s.mu.Lock()
	loaded := s.loaded
	columns := make([]models.BoardColumn, 0, len(s.columns))
	for _, col := range s.columns {
		columns = append(columns, col.BoardColumn)
	}
	s.mu.Unlock()

	if loaded {
		return columns, nil
	}
	return s.repo.ListColumns(s.projectID)
}

func containsColumn(columns []models.BoardColumn, columnID string) bool {
	for _, col := range columns {
		if col.ID == columnID {
			return true
		}
	}
	return false
}

// NormalizeRef converts the form-layer "no selection" sentinels into an
// absent reference. The literal strings "none" and "" must never reach the
// backing store.
func NormalizeRef(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return nil
	}
	return &v
}

func cloneColumns(columns []ColumnState) []ColumnState {
	out := make([]ColumnState, len(columns))
	for i, col := range columns {
		out[i] = ColumnState{BoardColumn: col.BoardColumn}
		out[i].Tasks = make([]models.Task, len(col.Tasks))
		copy(out[i].Tasks, col.Tasks)
	}
	return out
}
