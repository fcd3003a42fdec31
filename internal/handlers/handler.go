package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API on top of a task manager.
type Handler struct {
	manager *manager.Manager
	hub     *realtime.Hub
	logger  *slog.Logger
}

// New builds a Handler. hub serves /ws subscribers; change events reach it
// through manager.Options.OnChange. hub and logger may be nil.
func New(m *manager.Manager, hub *realtime.Hub, logger *slog.Logger) *Handler {
	if hub == nil {
		hub = realtime.NewHub()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{manager: m, hub: hub, logger: logger}
}

// parseID reads the :id path parameter. It writes a 400 response and
// returns false when the parameter is not a positive integer.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id: " + c.Param("id")})
		return 0, false
	}
	return id, true
}

// respondError maps engine failures onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var perr *manager.PersistError
	switch {
	case errors.Is(err, manager.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, manager.ErrOverlap), errors.Is(err, manager.ErrReference):
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
	case errors.Is(err, manager.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &perr):
		h.logger.Error("change applied but not persisted", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Change applied but could not be saved",
			"persisted": false,
		})
	default:
		h.logger.Error("unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
	_ = c.Error(err)
}

// bindTask decodes and validates the request body. It writes a 400 response
// and returns false on failure.
func bindTask(c *gin.Context) (TaskRequest, bool) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

func listResponse(key string, tasks []models.Task) gin.H {
	return gin.H{
		key:     toResponses(tasks),
		"count": len(tasks),
	}
}
