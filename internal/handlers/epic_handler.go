package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ListEpics handles GET /epics
func (h *Handler) ListEpics(c *gin.Context) {
	c.JSON(http.StatusOK, listResponse("epics", h.manager.Epics()))
}

// GetEpic handles GET /epics/:id
func (h *Handler) GetEpic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	epic, ok := h.manager.GetEpic(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Epic not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(epic))
}

// GetEpicSubtasks handles GET /epics/:id/subtasks
// Returns the epic's subtasks in the order they were added.
func (h *Handler) GetEpicSubtasks(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !h.manager.Exists(models.TypeEpic, id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Epic not found"})
		return
	}
	c.JSON(http.StatusOK, listResponse("subtasks", h.manager.GetSubtasksOfEpic(id)))
}

// CreateEpic handles POST /epics
// Only name and description are taken from the payload.
func (h *Handler) CreateEpic(c *gin.Context) {
	req, ok := bindTask(c)
	if !ok {
		return
	}
	epic, err := h.manager.AddEpic(req.toTask(models.TypeEpic))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(epic))
}

// UpdateEpic handles PUT /epics/:id and POST /epics/:id
func (h *Handler) UpdateEpic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindTask(c)
	if !ok {
		return
	}
	epic, err := h.manager.UpdateEpic(req.toTask(models.TypeEpic), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(epic))
}

// DeleteEpic handles DELETE /epics/:id
// The epic's subtasks are deleted with it.
func (h *Handler) DeleteEpic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.manager.RemoveEpic(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Epic not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Epic deleted successfully",
		"id":      id,
	})
}

// DeleteAllEpics handles DELETE /epics
func (h *Handler) DeleteAllEpics(c *gin.Context) {
	err := h.manager.RemoveAllEpics()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All epics deleted"})
}
