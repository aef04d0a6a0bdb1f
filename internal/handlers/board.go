package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/board"
	"github.com/teamplane/board-api/internal/dto"
	apierrors "github.com/teamplane/board-api/internal/errors"
	"github.com/teamplane/board-api/internal/middleware"
	"github.com/teamplane/board-api/internal/models"
	"github.com/teamplane/board-api/internal/repository"
	"github.com/teamplane/board-api/internal/utils"
	"gorm.io/gorm"
)

// BoardHandler exposes the per-project board state over HTTP. Each project
// gets one live store via the manager, so concurrent requests against the
// same board share one owner for its state.
type BoardHandler struct {
	manager   *board.Manager
	boardRepo repository.BoardRepository
}

func NewBoardHandler(manager *board.Manager, boardRepo repository.BoardRepository) *BoardHandler {
	return &BoardHandler{manager: manager, boardRepo: boardRepo}
}

// GetBoard loads the full board: columns in position order, each with its
// tasks in position order, assignee and category joined in when available.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")

	store := h.manager.Store(projectID)
	if err := store.Load(userID); err != nil {
		apierrors.RespondWithError(c, http.StatusInternalServerError,
			apierrors.NewAPIError(apierrors.ErrCodeFetchFailed, "Failed to load board"))
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(projectID, store.Columns()))
}

// ListTasks returns the board's tasks as a flat list, ordered by the
// requested sort option (urgency, deadline, created, title).
func (h *BoardHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")

	store := h.manager.Store(projectID)
	if err := store.Load(userID); err != nil {
		apierrors.RespondWithError(c, http.StatusInternalServerError,
			apierrors.NewAPIError(apierrors.ErrCodeFetchFailed, "Failed to load tasks"))
		return
	}

	option := board.ParseSortOption(c.Query("sort"))
	tasks := board.SortTasks(store.Tasks(), option)

	// Paginate after sorting; ordering is a property of the whole list.
	params := utils.GetPaginationParams(c)
	total := int64(len(tasks))
	start := params.Offset
	if start > len(tasks) {
		start = len(tasks)
	}
	end := start + params.Limit
	if end > len(tasks) {
		end = len(tasks)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks[start:end]),
		"sort":  string(option),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	ColumnID    string     `json:"column_id"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  string     `json:"category_id"`
	AssigneeID  string     `json:"assignee_id"`
}

// CreateTask adds a task to a column on this board.
func (h *BoardHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	store := h.manager.Store(projectID)
	task, err := store.CreateTask(userID, board.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    req.ColumnID,
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, board.ErrTitleRequired), errors.Is(err, board.ErrColumnRequired):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, board.ErrColumnNotFound):
			apierrors.BadRequest(c, "Column does not belong to this board")
		case errors.Is(err, board.ErrNoColumns):
			apierrors.UnprocessableEntity(c, "Project has no columns to create tasks in")
		default:
			apierrors.RespondWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeCreateFailed, "Failed to create task"))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

type updateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	ColumnID     *string    `json:"column_id"`
	Priority     *string    `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	CategoryID   *string    `json:"category_id"`
	AssigneeID   *string    `json:"assignee_id"`
}

// UpdateTask applies a partial update. Absent fields stay untouched;
// category and assignee accept the "none" sentinel to clear the reference.
func (h *BoardHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")
	taskID := c.Param("task_id")

	if _, err := h.findProjectTask(projectID, taskID); err != nil {
		h.respondTaskLookup(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	input := board.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		ColumnID:     req.ColumnID,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		CategoryID:   req.CategoryID,
		AssigneeID:   req.AssigneeID,
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		input.Priority = &p
	}

	store := h.manager.Store(projectID)
	if err := store.UpdateTask(userID, taskID, input); err != nil {
		if errors.Is(err, board.ErrTitleRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, board.ErrColumnNotFound) {
			apierrors.BadRequest(c, "Column does not belong to this board")
			return
		}
		apierrors.RespondWithError(c, http.StatusInternalServerError,
			apierrors.NewAPIError(apierrors.ErrCodeUpdateFailed, "Failed to update task"))
		return
	}

	task, err := h.boardRepo.FindTask(taskID)
	if err != nil {
		apierrors.RespondWithError(c, http.StatusInternalServerError,
			apierrors.NewAPIError(apierrors.ErrCodeFetchFailed, "Failed to load task"))
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

type moveTaskRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
}

// MoveTask reassigns a task to another column of the same board. Dropping a
// task on its current column is accepted and changes nothing.
func (h *BoardHandler) MoveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")
	taskID := c.Param("task_id")

	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	store := h.manager.Store(projectID)
	if !store.Loaded() {
		if err := store.Load(userID); err != nil {
			apierrors.RespondWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeFetchFailed, "Failed to load board"))
			return
		}
	}

	if err := store.MoveTask(userID, taskID, req.ColumnID); err != nil {
		switch {
		case errors.Is(err, board.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, board.ErrColumnNotFound):
			apierrors.BadRequest(c, "Target column does not belong to this board")
		default:
			apierrors.RespondWithError(c, http.StatusInternalServerError,
				apierrors.NewAPIError(apierrors.ErrCodeMoveFailed, "Failed to move task"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task moved successfully"})
}

// DeleteTask removes a task from the board.
func (h *BoardHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID := c.Param("id")
	taskID := c.Param("task_id")

	if _, err := h.findProjectTask(projectID, taskID); err != nil {
		h.respondTaskLookup(c, err)
		return
	}

	if err := h.boardRepo.DeleteTask(taskID); err != nil {
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	// Keep the live board in step with the database.
	_ = h.manager.Store(projectID).Load(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

var errTaskOutsideProject = errors.New("task belongs to another project")

func (h *BoardHandler) findProjectTask(projectID, taskID string) (*models.Task, error) {
	task, err := h.boardRepo.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, errTaskOutsideProject
	}
	return task, nil
}

func (h *BoardHandler) respondTaskLookup(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, errTaskOutsideProject) {
		apierrors.NotFound(c, "Task not found")
		return
	}
	apierrors.InternalError(c, "Failed to load task")
}
