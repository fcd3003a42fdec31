package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ListTasks handles GET /tasks
func (h *Handler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, listResponse("tasks", h.manager.Tasks()))
}

// GetTask handles GET /tasks/:id
// A successful lookup is recorded in the view history.
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, ok := h.manager.GetTask(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

/*
CreateTask handles POST /tasks
Rejects a schedule that overlaps another task or subtask with 406.
*/
func (h *Handler) CreateTask(c *gin.Context) {
	req, ok := bindTask(c)
	if !ok {
		return
	}
	task, err := h.manager.AddTask(req.toTask(models.TypeTask))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(task))
}

// UpdateTask handles PUT /tasks/:id and POST /tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindTask(c)
	if !ok {
		return
	}
	task, err := h.manager.UpdateTask(req.toTask(models.TypeTask), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

// DeleteTask handles DELETE /tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.manager.RemoveTask(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}

// DeleteAllTasks handles DELETE /tasks
func (h *Handler) DeleteAllTasks(c *gin.Context) {
	err := h.manager.RemoveAllTasks()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All tasks deleted"})
}
