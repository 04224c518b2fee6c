package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/praktis/backend/internal/application/billing"
	"github.com/praktis/backend/internal/domain/task"
	"github.com/praktis/backend/internal/interfaces/http/dto"
)

// BillingHandler serves the billing endpoints hanging off tasks plus
// the admin billing dashboard
type BillingHandler struct {
	BaseHandler
	billingService *appbilling.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *appbilling.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// RegisterRoutes registers the billing endpoints
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks/:id/billing")
	tasks.GET("", h.Get)
	tasks.POST("/advance", h.RecordAdvance)
	tasks.POST("/bill", h.IssueBill)
	tasks.PUT("/bill", h.EditBill)
	tasks.POST("/payment", h.RecordPayment)

	rg.GET("/billing", h.ListBilled)
}

type recordAdvanceRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMode   string          `json:"payment_mode" binding:"omitempty,oneof=UPI BANK_TRANSFER CASH CHEQUE NOT_SPECIFIED"`
	TransactionID string          `json:"transaction_id" binding:"omitempty,max=100"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
}

type issueBillRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Discount     decimal.Decimal `json:"discount"`
	DueDate      *time.Time      `json:"due_date"`
	LetterheadID *uuid.UUID      `json:"letterhead_id"`
}

type editBillRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Discount  decimal.Decimal `json:"discount"`
	DueDate   *time.Time      `json:"due_date"`
}

type recordPaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	PaymentMode   string           `json:"payment_mode" binding:"omitempty,oneof=UPI BANK_TRANSFER CASH CHEQUE NOT_SPECIFIED"`
	TransactionID string           `json:"transaction_id" binding:"omitempty,max=100"`
	QRCode        string           `json:"qr_code" binding:"omitempty,max=100"`
	Notes         string           `json:"notes" binding:"omitempty,max=500"`
}

type listBilledRequest struct {
	dto.ListRequest
	Keyword  string     `form:"keyword"`
	Status   string     `form:"status" binding:"omitempty,oneof=NOT_BILLED BILLED PARTIALLY_PAID PAID"`
	ClientID *uuid.UUID `form:"client_id"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// Get returns the billing view of a task
func (h *BillingHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.billingService.GetBilling(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordAdvance records money collected before billing
func (h *BillingHandler) RecordAdvance(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req recordAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.billingService.RecordAdvance(c.Request.Context(), actor, id, appbilling.RecordAdvanceInput{
		Amount:        req.Amount,
		PaymentMode:   task.PaymentMode(req.PaymentMode),
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// IssueBill issues the bill for a task
func (h *BillingHandler) IssueBill(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req issueBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.billingService.IssueBill(c.Request.Context(), actor, id, appbilling.IssueBillInput{
		Amount:       req.Amount,
		TaxAmount:    req.TaxAmount,
		Discount:     req.Discount,
		DueDate:      req.DueDate,
		LetterheadID: req.LetterheadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// EditBill amends an issued bill's figures
func (h *BillingHandler) EditBill(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req editBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.billingService.EditBill(c.Request.Context(), actor, id, appbilling.EditBillInput{
		Amount:    req.Amount,
		TaxAmount: req.TaxAmount,
		Discount:  req.Discount,
		DueDate:   req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordPayment records a payment against an issued bill. Omitting
// the amount settles the full outstanding balance.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.billingService.RecordPayment(c.Request.Context(), actor, id, appbilling.RecordPaymentInput{
		Amount:        req.Amount,
		PaymentMode:   task.PaymentMode(req.PaymentMode),
		TransactionID: req.TransactionID,
		QRCode:        req.QRCode,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListBilled returns the billing dashboard: billed tasks with a
// summary of outstanding amounts
func (h *BillingHandler) ListBilled(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req listBilledRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := appbilling.ListBilledInput{
		Keyword:  req.Keyword,
		ClientID: req.ClientID,
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := task.PaymentStatus(req.Status)
		input.Status = &status
	}

	result, err := h.billingService.ListBilled(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := gin.H{"bills": result.Bills, "summary": result.Summary}
	h.SuccessWithMeta(c, resp, result.TotalCount, result.Page, result.PageSize)
}
