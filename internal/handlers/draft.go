package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamplane/board-api/internal/constants"
	"github.com/teamplane/board-api/internal/drafts"
	apierrors "github.com/teamplane/board-api/internal/errors"
)

// DraftHandler persists half-finished create-task forms per project, so a
// closed tab or an expired session does not lose typed input. Only the
// creation form is draftable; edits of existing tasks are not.
type DraftHandler struct {
	drafts *drafts.Service
}

func NewDraftHandler(draftService *drafts.Service) *DraftHandler {
	return &DraftHandler{drafts: draftService}
}

type draftRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    string     `json:"column_id"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CategoryID  string     `json:"category_id"`
	AssigneeID  string     `json:"assignee_id"`
}

// GetDraft returns the project's pending create-form draft, if any.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	projectID := c.Param("id")

	draft, err := h.drafts.Load(c.Request.Context(), projectID, constants.DraftKeyNew)
	if err != nil && !errors.Is(err, drafts.ErrNotFound) {
		apierrors.InternalError(c, "Failed to load draft")
		return
	}
	if draft == nil {
		c.JSON(http.StatusOK, gin.H{"draft": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// SaveDraft stores the create-form state. Writes are debounced; pass
// ?flush=true to persist immediately, which clients do when the page is
// about to become hidden.
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	projectID := c.Param("id")

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	h.drafts.Save(projectID, constants.DraftKeyNew, drafts.Draft{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    req.ColumnID,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
		SavedAt:     time.Now(),
	})

	if c.Query("flush") == "true" {
		if err := h.drafts.Flush(c.Request.Context()); err != nil {
			apierrors.InternalError(c, "Failed to persist draft")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft saved"})
}

// DeleteDraft discards the project's create-form draft.
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	projectID := c.Param("id")

	if err := h.drafts.Clear(c.Request.Context(), projectID, constants.DraftKeyNew); err != nil && !errors.Is(err, drafts.ErrNotFound) {
		apierrors.InternalError(c, "Failed to clear draft")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}
