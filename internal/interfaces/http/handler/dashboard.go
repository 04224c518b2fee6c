package handler

import (
	"github.com/gin-gonic/gin"

	appdashboard "github.com/praktis/backend/internal/application/dashboard"
)

// DashboardHandler serves the admin dashboard statistics
type DashboardHandler struct {
	BaseHandler
	dashboardService *appdashboard.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *appdashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers the dashboard endpoints
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.Stats)
}

// Stats returns the practice-wide counters shown on the dashboard
func (h *DashboardHandler) Stats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.dashboardService.Stats(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
