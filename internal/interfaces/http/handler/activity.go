package handler

import (
	"github.com/gin-gonic/gin"

	appactivity "github.com/praktis/backend/internal/application/activity"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// ActivityHandler serves the practice activity feed
type ActivityHandler struct {
	BaseHandler
	feedService *appactivity.FeedService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(feedService *appactivity.FeedService) *ActivityHandler {
	return &ActivityHandler{feedService: feedService}
}

// RegisterRoutes registers the activity feed endpoints
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activities", h.Recent)
}

type listActivitiesRequest struct {
	dto.ListRequest
	Type          string `form:"type" binding:"omitempty,oneof=TASK BILLING PAYMENT USER CLIENT"`
	ImportantOnly bool   `form:"important_only"`
}

// Recent returns the newest activity records, optionally filtered to
// a type or to important entries only
func (h *ActivityHandler) Recent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.feedService.Recent(c.Request.Context(), actor, appactivity.FeedInput{
		Type:          req.Type,
		ImportantOnly: req.ImportantOnly,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Entries, result.TotalCount, result.Page, result.PageSize)
}
