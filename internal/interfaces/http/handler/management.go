package handler

import (
	"github.com/gin-gonic/gin"

	appmanagement "github.com/praktis/backend/internal/application/management"
)

// ManagementHandler serves the practice cleanup endpoints: inactive
// entity reports, orphaned task listings and staff removal
type ManagementHandler struct {
	BaseHandler
	managementService *appmanagement.ManagementService
}

// NewManagementHandler creates a new management handler
func NewManagementHandler(managementService *appmanagement.ManagementService) *ManagementHandler {
	return &ManagementHandler{managementService: managementService}
}

// RegisterRoutes registers the management endpoints
func (h *ManagementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mgmt := rg.Group("/management")
	mgmt.GET("/inactive", h.InactiveEntities)
	mgmt.GET("/orphaned-tasks", h.OrphanedTasks)
	mgmt.DELETE("/staff/:id", h.RemoveStaff)
}

// InactiveEntities lists deactivated staff and retired clients
func (h *ManagementHandler) InactiveEntities(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	report, err := h.managementService.InactiveEntities(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// OrphanedTasks lists open tasks still assigned to deactivated staff
func (h *ManagementHandler) OrphanedTasks(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	tasks, err := h.managementService.OrphanedTasks(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// RemoveStaff removes a staff account for good, moving their open
// tasks to legacy attribution and revoking their sessions
func (h *ManagementHandler) RemoveStaff(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.managementService.RemoveStaff(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
