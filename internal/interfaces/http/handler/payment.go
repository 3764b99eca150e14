package handler

import (
	"context"

	paymentapp "github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentService is the payment lifecycle used by PaymentHandler
type PaymentService interface {
	Summary(ctx context.Context, caller shared.Actor, orderID string) (*paymentapp.SummaryResult, error)
	SubmitDeposit(ctx context.Context, caller shared.Actor, cmd paymentapp.DepositCommand) (*paymentapp.DepositResult, error)
	SubmitFinalPayment(ctx context.Context, caller shared.Actor, cmd paymentapp.FinalPaymentCommand) (*paymentapp.FinalPaymentResult, error)
}

// PaymentHandler handles deposit and final payment endpoints
type PaymentHandler struct {
	BaseHandler
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// DepositRequest is the body of a deposit submission
type DepositRequest struct {
	DepositPercent *decimal.Decimal `json:"deposit_percent" binding:"required"`
	Method         string           `json:"method" binding:"required"`
	Notes          string           `json:"notes" binding:"omitempty,max=1000"`
}

// FinalPaymentRequest is the body of a final payment submission
type FinalPaymentRequest struct {
	Method string `json:"method" binding:"required"`
	Notes  string `json:"notes" binding:"omitempty,max=1000"`
}

// Summary returns the payment position and the next available step
// GET /orders/:id/payment-summary
func (h *PaymentHandler) Summary(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.Summary(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SubmitDeposit records a deposit and reserves or requests a vehicle
// POST /orders/:id/deposit
func (h *PaymentHandler) SubmitDeposit(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.SubmitDeposit(c.Request.Context(), actor, paymentapp.DepositCommand{
		OrderID:        c.Param("id"),
		DepositPercent: *req.DepositPercent,
		Method:         order.PaymentMethod(req.Method),
		Notes:          req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithWarning(c, result, result.Warning)
}

// SubmitFinalPayment settles the remaining balance. A contract failure is
// reported inside the body; the payment itself still succeeded.
// POST /orders/:id/final-payment
func (h *PaymentHandler) SubmitFinalPayment(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req FinalPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.SubmitFinalPayment(c.Request.Context(), actor, paymentapp.FinalPaymentCommand{
		OrderID: c.Param("id"),
		Method:  order.PaymentMethod(req.Method),
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithWarning(c, result, result.Contract.Error)
}
