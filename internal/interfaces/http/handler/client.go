package handler

import (
	"github.com/gin-gonic/gin"

	appdirectory "github.com/praktis/backend/internal/application/directory"
	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// ClientHandler serves the client directory endpoints
type ClientHandler struct {
	BaseHandler
	clientService *appdirectory.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *appdirectory.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RegisterRoutes registers the client endpoints
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.POST("", h.Create)
	clients.GET("", h.List)
	clients.GET("/:id", h.Get)
	clients.PUT("/:id", h.Update)
	clients.POST("/:id/retire", h.Retire)
	clients.POST("/:id/reactivate", h.Reactivate)
	clients.DELETE("/:id", h.Delete)
}

type clientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	Type            string `json:"type" binding:"omitempty,oneof=INDIVIDUAL FIRM COMPANY TRUST HUF OTHER"`
	Code            string `json:"code" binding:"omitempty,max=50"`
	PAN             string `json:"pan" binding:"omitempty,pan"`
	GSTIN           string `json:"gstin" binding:"omitempty,gstin"`
	Mobile          string `json:"mobile" binding:"omitempty,max=20"`
	AlternateMobile string `json:"alternate_mobile" binding:"omitempty,max=20"`
	Email           string `json:"email" binding:"omitempty,email"`
	Address         string `json:"address" binding:"omitempty,max=500"`
	Notes           string `json:"notes" binding:"omitempty,max=2000"`
}

type listClientsRequest struct {
	dto.ListRequest
	Keyword string `form:"keyword"`
	Active  *bool  `form:"active"`
	Type    string `form:"type" binding:"omitempty,oneof=INDIVIDUAL FIRM COMPANY TRUST HUF OTHER"`
}

// Create adds a client to the directory
func (h *ClientHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.Create(c.Request.Context(), actor, appdirectory.CreateClientInput{
		Name:            req.Name,
		Type:            directory.ClientType(req.Type),
		Code:            req.Code,
		PAN:             req.PAN,
		GSTIN:           req.GSTIN,
		Mobile:          req.Mobile,
		AlternateMobile: req.AlternateMobile,
		Email:           req.Email,
		Address:         req.Address,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the clients visible to the actor
func (h *ClientHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appdirectory.ListClientsInput{
		Keyword:  req.Keyword,
		Active:   req.Active,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Type != "" {
		clientType := directory.ClientType(req.Type)
		input.Type = &clientType
	}

	result, err := h.clientService.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Clients, result.TotalCount, result.Page, result.PageSize)
}

// Get returns one client
func (h *ClientHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.clientService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits a client's details
func (h *ClientHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), actor, id, appdirectory.UpdateClientInput{
		Name:            req.Name,
		Code:            req.Code,
		PAN:             req.PAN,
		GSTIN:           req.GSTIN,
		Mobile:          req.Mobile,
		AlternateMobile: req.AlternateMobile,
		Email:           req.Email,
		Address:         req.Address,
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Retire soft-retires a client
func (h *ClientHandler) Retire(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Retire(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reactivate restores a retired client
func (h *ClientHandler) Reactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Reactivate(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete permanently removes a retired client and its archived tasks
func (h *ClientHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.clientService.PermanentlyDelete(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
