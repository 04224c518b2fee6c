package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appactivity "github.com/praktis/backend/internal/application/activity"
	apptask "github.com/praktis/backend/internal/application/task"
)

// SystemHandler serves the health probe and the manual maintenance
// triggers normally driven by the daily scheduler
type SystemHandler struct {
	BaseHandler
	taskService *apptask.TaskService
	feedService *appactivity.FeedService
	startedAt   time.Time
	version     string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(taskService *apptask.TaskService, feedService *appactivity.FeedService, version string) *SystemHandler {
	return &SystemHandler{
		taskService: taskService,
		feedService: feedService,
		startedAt:   time.Now(),
		version:     version,
	}
}

// RegisterHealthRoute registers the unauthenticated health probe
func (h *SystemHandler) RegisterHealthRoute(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// RegisterRoutes registers the admin maintenance endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	maintenance := rg.Group("/maintenance")
	maintenance.POST("/archive-sweep", h.ArchiveSweep)
	maintenance.POST("/prune-activities", h.PruneActivities)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// ArchiveSweep archives completed tasks past the retention window,
// the same job the scheduler runs nightly
func (h *SystemHandler) ArchiveSweep(c *gin.Context) {
	result, err := h.taskService.RunArchiveSweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PruneActivities deletes activity records past their retention
func (h *SystemHandler) PruneActivities(c *gin.Context) {
	deleted, err := h.feedService.Prune(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}
