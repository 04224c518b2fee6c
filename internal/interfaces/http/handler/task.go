package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apptask "github.com/praktis/backend/internal/application/task"
	"github.com/praktis/backend/internal/domain/task"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// TaskHandler serves the task lifecycle endpoints
type TaskHandler struct {
	BaseHandler
	taskService *apptask.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *apptask.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// RegisterRoutes registers the task endpoints
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.POST("", h.Create)
	tasks.GET("", h.List)
	tasks.GET("/mine", h.MyTasks)
	tasks.GET("/summary", h.Summary)
	tasks.GET("/:id", h.Get)
	tasks.PUT("/:id", h.Update)
	tasks.POST("/:id/assign", h.Assign)
	tasks.POST("/:id/status", h.UpdateStatus)
	tasks.POST("/:id/notes", h.AddNote)
	tasks.POST("/:id/archive", h.Archive)
	tasks.POST("/:id/restore", h.Restore)
	tasks.DELETE("/:id", h.Delete)
}

type advanceRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMode   string          `json:"payment_mode" binding:"omitempty,oneof=UPI BANK_TRANSFER CASH CHEQUE NOT_SPECIFIED"`
	TransactionID string          `json:"transaction_id" binding:"omitempty,max=100"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
}

type createTaskRequest struct {
	ClientID       uuid.UUID       `json:"client_id" binding:"required"`
	Title          string          `json:"title" binding:"required,max=200"`
	ServiceType    string          `json:"service_type" binding:"omitempty,max=100"`
	AssessmentYear string          `json:"assessment_year" binding:"omitempty,max=20"`
	Period         string          `json:"period" binding:"omitempty,max=50"`
	Priority       string          `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH"`
	DueDate        *time.Time      `json:"due_date"`
	AssigneeID     *uuid.UUID      `json:"assignee_id"`
	Advance        *advanceRequest `json:"advance"`
}

type updateTaskRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	ServiceType    string     `json:"service_type" binding:"omitempty,max=100"`
	AssessmentYear string     `json:"assessment_year" binding:"omitempty,max=20"`
	Period         string     `json:"period" binding:"omitempty,max=50"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH"`
	DueDate        *time.Time `json:"due_date"`
}

type assignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	Note   string `json:"note" binding:"omitempty,max=1000"`
}

type noteRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

type listTasksRequest struct {
	dto.ListRequest
	Keyword    string     `form:"keyword"`
	Status     string     `form:"status" binding:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	Priority   string     `form:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH"`
	AssigneeID *uuid.UUID `form:"assignee_id"`
	ClientID   *uuid.UUID `form:"client_id"`
	Archived   *bool      `form:"archived"`
	SortBy     string     `form:"sort_by" binding:"omitempty,oneof=created_at due_date priority title"`
	SortOrder  string     `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Create opens a new task, optionally assigning it and recording an
// advance collected up front
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := apptask.CreateTaskInput{
		ClientID:       req.ClientID,
		Title:          req.Title,
		ServiceType:    req.ServiceType,
		AssessmentYear: req.AssessmentYear,
		Period:         req.Period,
		Priority:       task.Priority(req.Priority),
		DueDate:        req.DueDate,
		AssigneeID:     req.AssigneeID,
	}
	if req.Advance != nil {
		input.Advance = &apptask.AdvanceInput{
			Amount:        req.Advance.Amount,
			PaymentMode:   task.PaymentMode(req.Advance.PaymentMode),
			TransactionID: req.Advance.TransactionID,
			Notes:         req.Advance.Notes,
		}
	}

	resp, err := h.taskService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the practice's tasks
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.List(c.Request.Context(), actor, h.listInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Tasks, result.TotalCount, result.Page, result.PageSize)
}

// MyTasks returns the tasks assigned to the acting staff member
func (h *TaskHandler) MyTasks(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taskService.MyTasks(c.Request.Context(), actor, h.listInput(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Tasks, result.TotalCount, result.Page, result.PageSize)
}

// Summary returns per-status task counts for the actor's scope
func (h *TaskHandler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.taskService.Summary(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns one task with its billing view
func (h *TaskHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.taskService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a task's details
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.Update(c.Request.Context(), actor, id, apptask.UpdateTaskInput{
		Title:          req.Title,
		ServiceType:    req.ServiceType,
		AssessmentYear: req.AssessmentYear,
		Period:         req.Period,
		Priority:       task.Priority(req.Priority),
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Assign hands a task to a staff member
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.Assign(c.Request.Context(), actor, id, req.AssigneeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus moves a task through its workflow
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.UpdateStatus(c.Request.Context(), actor, id, apptask.UpdateStatusInput{
		Status: task.Status(req.Status),
		Note:   req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddNote appends a free-form note to a task
func (h *TaskHandler) AddNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taskService.AddNote(c.Request.Context(), actor, id, req.Text)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive moves a completed task into the archive
func (h *TaskHandler) Archive(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Archive(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore brings an archived task back
func (h *TaskHandler) Restore(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Restore(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete permanently removes a task without billing history
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.PermanentlyDelete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *TaskHandler) listInput(req listTasksRequest) apptask.ListTasksInput {
	input := apptask.ListTasksInput{
		Keyword:    req.Keyword,
		AssigneeID: req.AssigneeID,
		ClientID:   req.ClientID,
		Archived:   req.Archived,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status := task.Status(req.Status)
		input.Status = &status
	}
	if req.Priority != "" {
		priority := task.Priority(req.Priority)
		input.Priority = &priority
	}
	return input
}
