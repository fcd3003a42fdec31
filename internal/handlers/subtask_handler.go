package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ListSubTasks handles GET /subtasks
func (h *Handler) ListSubTasks(c *gin.Context) {
	c.JSON(http.StatusOK, listResponse("subtasks", h.manager.SubTasks()))
}

// GetSubTask handles GET /subtasks/:id
func (h *Handler) GetSubTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sub, ok := h.manager.GetSubTask(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(sub))
}

/*
CreateSubTask handles POST /subtasks
epicId must name an existing epic, otherwise the request is rejected with 406.
*/
func (h *Handler) CreateSubTask(c *gin.Context) {
	req, ok := bindTask(c)
	if !ok {
		return
	}
	sub, err := h.manager.AddSubTask(req.toTask(models.TypeSubtask), req.EpicID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(sub))
}

// UpdateSubTask handles PUT /subtasks/:id and POST /subtasks/:id
// A subtask cannot be moved to another epic; epicId in the payload is ignored.
func (h *Handler) UpdateSubTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := bindTask(c)
	if !ok {
		return
	}
	sub, err := h.manager.UpdateSubTask(req.toTask(models.TypeSubtask), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(sub))
}

// DeleteSubTask handles DELETE /subtasks/:id
func (h *Handler) DeleteSubTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, err := h.manager.RemoveSubTask(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Subtask deleted successfully",
		"id":      id,
	})
}

// DeleteAllSubTasks handles DELETE /subtasks
func (h *Handler) DeleteAllSubTasks(c *gin.Context) {
	err := h.manager.RemoveAllSubTasks()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All subtasks deleted"})
}
