package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHistory handles GET /history
// Returns viewed records from oldest to newest.
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, listResponse("history", h.manager.GetHistory()))
}

// GetPrioritized handles GET /prioritized
// Returns scheduled tasks and subtasks ordered by start time.
func (h *Handler) GetPrioritized(c *gin.Context) {
	c.JSON(http.StatusOK, listResponse("tasks", h.manager.GetPrioritizedTasks()))
}
