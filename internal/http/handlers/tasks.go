package handlers

import (
	"errors"
	"net/http"

	"realtime_kanban/internal/domain"
	"realtime_kanban/internal/logger"
	"realtime_kanban/internal/store"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title  string        `json:"title"`
	Status domain.Status `json:"status"`
}

type updateStatusRequest struct {
	Status domain.Status `json:"status"`
}

// ListTasks returns every task; never null.
func (h *Handler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("list tasks failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTask expects {title, status}
func (h *Handler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx).Warn("create task: bad request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create task"})
		return
	}

	task, err := h.Tasks.Create(ctx, req.Title, req.Status)
	if err != nil {
		logger.WithContext(ctx).Warn("create task failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskStatus expects {status}
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(ctx).Warn("update task: bad request", "task_id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update task"})
		return
	}

	task, err := h.Tasks.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		logger.WithContext(ctx).Warn("update task failed", "task_id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask succeeds for unknown ids too.
func (h *Handler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.Tasks.Delete(ctx, id); err != nil {
		logger.WithContext(ctx).Warn("delete task failed", "task_id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *Handler) ClearBoard(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.Tasks.DeleteAll(ctx); err != nil {
		logger.WithContext(ctx).Error("clear board failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear board"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All tasks cleared successfully"})
}
