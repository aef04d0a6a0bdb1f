package board

import (
	"context"
	"errors"
	"sync"

	"github.com/teamplane/board-api/internal/constants"
	"github.com/teamplane/board-api/internal/drafts"
	"github.com/teamplane/board-api/internal/models"
)

// Mode describes what the next user gesture means.
type Mode int

const (
	// ModeIdle: no task selected, no drag in progress, no modal open.
	ModeIdle Mode = iota
	// ModeDragging: a task has been picked up and awaits a drop.
	ModeDragging
	// ModeEditing: the modal is open over an existing task.
	ModeEditing
	// ModeCreating: the modal is open for a new task, with or without a
	// preselected column.
	ModeCreating
)

var (
	ErrNotDragging = errors.New("board: no drag in progress")
	ErrNotEditing  = errors.New("board: no task is being edited")
	ErrNotCreating = errors.New("board: no create form is open")
)

// Controller translates drag/drop and click gestures into Store calls and
// tracks the transient selection state between them.
type Controller struct {
	store  *Store
	drafts *drafts.Service

	mu       sync.Mutex
	mode     Mode
	dragged  *models.Task
	editing  *models.Task
	columnID string // preselected column for per-column "Add a card"
}

// NewController creates a Controller over a store. drafts may be nil when
// form persistence is not wired.
func NewController(store *Store, draftSvc *drafts.Service) *Controller {
	return &Controller{store: store, drafts: draftSvc}
}

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// DragStart captures the dragged task and enters Dragging.
func (c *Controller) DragStart(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragged = &task
	c.mode = ModeDragging
}

// Drop consumes the drag gesture. Dropping a task onto its own column is a
// true no-op: no store call is made. In every case the controller returns to
// Idle; a failing move is reported through the store's notifier, never
// through the gesture itself.
func (c *Controller) Drop(actorID, columnID string) {
	c.mu.Lock()
	task := c.dragged
	c.dragged = nil
	c.mode = ModeIdle
	c.mu.Unlock()

	if task == nil {
		return
	}
	if task.ColumnID == columnID {
		return
	}

	_ = c.store.MoveTask(actorID, task.ID, columnID)
}

// TaskClick opens the modal seeded with an existing task.
func (c *Controller) TaskClick(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &task
	c.columnID = ""
	c.mode = ModeEditing
}

// Editing returns the task currently being edited, if any.
func (c *Controller) Editing() *models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return nil
	}
	t := *c.editing
	return &t
}

// NewTask opens the create form without a preselected column; the user must
// pick one.
func (c *Controller) NewTask() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.columnID = ""
	c.mode = ModeCreating
}

// AddCard opens the create form with the column preselected.
func (c *Controller) AddCard(columnID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.columnID = columnID
	c.mode = ModeCreating
}

// SeedCreateForm resolves the initial values for an open create form. A
// persisted draft wins over defaults; an explicitly preselected column fills
// in only when the draft carries no column of its own.
func (c *Controller) SeedCreateForm(ctx context.Context) drafts.Draft {
	c.mu.Lock()
	preselected := c.columnID
	c.mu.Unlock()

	var seed drafts.Draft
	if c.drafts != nil {
		if d, err := c.drafts.Load(ctx, c.store.ProjectID(), constants.DraftKeyNew); err == nil && d != nil {
			seed = *d
		}
	}

	if seed.Priority == "" {
		seed.Priority = string(models.PriorityMedium)
	}
	if seed.ColumnID == "" {
		seed.ColumnID = preselected
	}
	if seed.ColumnID == "" {
		if cols := c.store.Columns(); len(cols) > 0 {
			seed.ColumnID = cols[0].ID
		}
	}
	return seed
}

// SaveEdit persists a partial update to the task being edited and, on
// success, closes the modal. Edits never touch drafts.
func (c *Controller) SaveEdit(actorID string, input UpdateTaskInput) error {
	c.mu.Lock()
	if c.mode != ModeEditing || c.editing == nil {
		c.mu.Unlock()
		return ErrNotEditing
	}
	taskID := c.editing.ID
	c.mu.Unlock()

	if err := c.store.UpdateTask(actorID, taskID, input); err != nil {
		return err
	}

	c.mu.Lock()
	c.editing = nil
	c.mode = ModeIdle
	c.mu.Unlock()
	return nil
}

// Create persists a new task from the open create form. The preselected
// column, when present, overrides whatever column the form submitted. On
// success the modal closes and the project's pending draft is cleared.
func (c *Controller) Create(ctx context.Context, actorID string, input CreateTaskInput) (*models.Task, error) {
	c.mu.Lock()
	if c.mode != ModeCreating {
		c.mu.Unlock()
		return nil, ErrNotCreating
	}
	if c.columnID != "" {
		input.ColumnID = c.columnID
	}
	c.mu.Unlock()

	task, err := c.store.CreateTask(actorID, input)
	if err != nil {
		return nil, err
	}

	if c.drafts != nil {
		_ = c.drafts.Clear(ctx, c.store.ProjectID(), constants.DraftKeyNew)
	}

	c.mu.Lock()
	c.columnID = ""
	c.mode = ModeIdle
	c.mu.Unlock()
	return task, nil
}

// Close cancels whatever modal is open and returns to Idle. Cancelling a
// create form deletes its draft; abandoning the page without closing does
// not, which is what lets the draft survive navigation.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	wasCreating := c.mode == ModeCreating
	c.editing = nil
	c.dragged = nil
	c.columnID = ""
	c.mode = ModeIdle
	c.mu.Unlock()

	if wasCreating && c.drafts != nil {
		_ = c.drafts.Clear(ctx, c.store.ProjectID(), constants.DraftKeyNew)
	}
}
