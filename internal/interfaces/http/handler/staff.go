package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/praktis/backend/internal/application/identity"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// StaffHandler serves staff account management endpoints
type StaffHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(userService *appidentity.UserService) *StaffHandler {
	return &StaffHandler{userService: userService}
}

// RegisterRoutes registers the staff endpoints
func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/staff")
	staff.POST("", h.Create)
	staff.GET("", h.List)
	staff.GET("/:id", h.Get)
	staff.PUT("/:id", h.Update)
	staff.POST("/:id/deactivate", h.Deactivate)
	staff.POST("/:id/activate", h.Activate)
	staff.POST("/:id/reset-password", h.ResetPassword)
}

type createStaffRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Password  string `json:"password" binding:"required,min=8"`
}

type updateStaffRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

type listStaffRequest struct {
	dto.ListRequest
	Keyword string `form:"keyword"`
	Active  *bool  `form:"active"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Create adds a staff account to the practice
func (h *StaffHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.userService.CreateStaff(c.Request.Context(), actor, appidentity.CreateStaffInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List returns the practice's staff accounts
func (h *StaffHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listStaffRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.ListStaff(c.Request.Context(), actor, appidentity.ListStaffInput{
		Keyword:  req.Keyword,
		Active:   req.Active,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Staff, result.TotalCount, result.Page, result.PageSize)
}

// Get returns one staff account
func (h *StaffHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	info, err := h.userService.GetStaff(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Update edits a staff profile
func (h *StaffHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	info, err := h.userService.UpdateStaff(c.Request.Context(), actor, id, appidentity.UpdateStaffInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Deactivate switches a staff account off and revokes its sessions
func (h *StaffHandler) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeactivateStaff(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate re-enables a deactivated staff account
func (h *StaffHandler) Activate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.ActivateStaff(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ResetPassword sets a new password for a staff account
func (h *StaffHandler) ResetPassword(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ResetStaffPassword(c.Request.Context(), actor, id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
