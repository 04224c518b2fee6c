package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appbilling "github.com/praktis/backend/internal/application/billing"
)

// SettingsHandler serves the payment settings endpoints. All of them
// are admin scoped via route registration in the router.
type SettingsHandler struct {
	BaseHandler
	settingsService *appbilling.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *appbilling.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes registers the payment settings endpoints
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings/payments")
	settings.GET("", h.Get)
	settings.PUT("", h.Update)
	settings.POST("/upload-url", h.GenerateUploadURL)
	settings.POST("/qr-codes", h.AddQRCode)
	settings.DELETE("/qr-codes/:id", h.RemoveQRCode)
	settings.POST("/bank-accounts", h.AddBankAccount)
	settings.DELETE("/bank-accounts/:id", h.RemoveBankAccount)
	settings.POST("/letterheads", h.AddLetterhead)
	settings.POST("/letterheads/:id/default", h.SetDefaultLetterhead)
	settings.DELETE("/letterheads/:id", h.RemoveLetterhead)
}

type updateSettingsRequest struct {
	TaxEnabled    *bool            `json:"tax_enabled"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	InvoicePrefix string           `json:"invoice_prefix" binding:"omitempty,max=10"`
}

type uploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=qr letterhead"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

type addQRCodeRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	UPIID    string `json:"upi_id" binding:"omitempty,max=100"`
	ImageKey string `json:"image_key" binding:"required,max=300"`
}

type addBankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required,max=100"`
	AccountName   string `json:"account_name" binding:"required,max=100"`
	AccountNumber string `json:"account_number" binding:"required,max=30"`
	IFSC          string `json:"ifsc" binding:"required,len=11"`
	Branch        string `json:"branch" binding:"omitempty,max=100"`
}

type addLetterheadRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	ImageKey string `json:"image_key" binding:"required,max=300"`
}

// Get returns the practice's payment settings, creating defaults on
// first access
func (h *SettingsHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.Get(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update edits tax and invoice numbering settings
func (h *SettingsHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.Update(c.Request.Context(), actor, appbilling.UpdateSettingsInput{
		TaxEnabled:    req.TaxEnabled,
		TaxPercentage: req.TaxPercentage,
		InvoicePrefix: req.InvoicePrefix,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateUploadURL hands out a presigned URL for uploading a QR code
// or letterhead image
func (h *SettingsHandler) GenerateUploadURL(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.settingsService.GenerateImageUploadURL(c.Request.Context(), actor, req.Kind, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AddQRCode registers an uploaded payment QR code
func (h *SettingsHandler) AddQRCode(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req addQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.AddQRCode(c.Request.Context(), actor, appbilling.AddQRCodeInput{
		Name:     req.Name,
		UPIID:    req.UPIID,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveQRCode deletes a payment QR code
func (h *SettingsHandler) RemoveQRCode(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.settingsService.RemoveQRCode(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddBankAccount registers a bank account for invoices
func (h *SettingsHandler) AddBankAccount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req addBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.AddBankAccount(c.Request.Context(), actor, appbilling.AddBankAccountInput{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		IFSC:          req.IFSC,
		Branch:        req.Branch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveBankAccount deletes a bank account
func (h *SettingsHandler) RemoveBankAccount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.settingsService.RemoveBankAccount(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLetterhead registers an uploaded letterhead image
func (h *SettingsHandler) AddLetterhead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req addLetterheadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.settingsService.AddLetterhead(c.Request.Context(), actor, appbilling.AddLetterheadInput{
		Name:     req.Name,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// SetDefaultLetterhead marks a letterhead as the default for bills
func (h *SettingsHandler) SetDefaultLetterhead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.settingsService.SetDefaultLetterhead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLetterhead deletes a letterhead
func (h *SettingsHandler) RemoveLetterhead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.settingsService.RemoveLetterhead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
