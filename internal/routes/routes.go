package routes

import (
	"log/slog"
	"net/http"

	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the router serving h.
func SetupRoutes(h *handlers.Handler, logger *slog.Logger) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestID())
	ginRouter.Use(middleware.RequestLogger(logger))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	tasks := ginRouter.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.DELETE("", h.DeleteAllTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.POST("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	epics := ginRouter.Group("/epics")
	{
		epics.GET("", h.ListEpics)
		epics.POST("", h.CreateEpic)
		epics.DELETE("", h.DeleteAllEpics)
		epics.GET("/:id", h.GetEpic)
		epics.GET("/:id/subtasks", h.GetEpicSubtasks)
		epics.PUT("/:id", h.UpdateEpic)
		epics.POST("/:id", h.UpdateEpic)
		epics.DELETE("/:id", h.DeleteEpic)
	}

	subtasks := ginRouter.Group("/subtasks")
	{
		subtasks.GET("", h.ListSubTasks)
		subtasks.POST("", h.CreateSubTask)
		subtasks.DELETE("", h.DeleteAllSubTasks)
		subtasks.GET("/:id", h.GetSubTask)
		subtasks.PUT("/:id", h.UpdateSubTask)
		subtasks.POST("/:id", h.UpdateSubTask)
		subtasks.DELETE("/:id", h.DeleteSubTask)
	}

	ginRouter.GET("/history", h.GetHistory)
	ginRouter.GET("/prioritized", h.GetPrioritized)
	ginRouter.GET("/ws", h.Subscribe)

	return ginRouter
}
