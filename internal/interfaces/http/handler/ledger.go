package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerapp "github.com/dms/backend/internal/application/ledger"
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const queryDateLayout = "2006-01-02"

// LedgerService reads payments, timelines and debts
type LedgerService interface {
	ListPayments(ctx context.Context, caller shared.Actor, orderID string) ([]order.Payment, error)
	History(ctx context.Context, caller shared.Actor, orderID string) ([]order.StatusLog, error)
	ListCustomerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error)
	ListManufacturerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error)
	GetDebt(ctx context.Context, id string) (*ledger.Debt, error)
	ExportDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) ([]byte, error)
}

// LedgerHandler handles payment history and debt endpoints
type LedgerHandler struct {
	BaseHandler
	service LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// DebtQuery is the query string of debt listings and exports
type DebtQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Q         string `form:"q" binding:"omitempty,max=200"`
	Status    string `form:"status" binding:"omitempty,oneof=active partial paid overdue cancelled"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	MinAmount string `form:"min_amount"`
	MaxAmount string `form:"max_amount"`
}

// Filter converts the query into a backend filter
func (q DebtQuery) Filter() (ledger.DebtFilter, error) {
	f := ledger.DebtFilter{
		Page:   q.Page,
		Limit:  q.Limit,
		Q:      q.Q,
		Status: ledger.DebtStatus(q.Status),
	}

	var err error
	if f.StartDate, err = parseQueryDate("start_date", q.StartDate); err != nil {
		return f, err
	}
	if f.EndDate, err = parseQueryDate("end_date", q.EndDate); err != nil {
		return f, err
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, errors.New("end_date must not be before start_date")
	}
	if f.MinAmount, err = parseQueryAmount("min_amount", q.MinAmount); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseQueryAmount("max_amount", q.MaxAmount); err != nil {
		return f, err
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		return f, errors.New("max_amount must not be below min_amount")
	}
	return f.Normalize(), nil
}

func parseQueryDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD format", name)
	}
	return &t, nil
}

func parseQueryAmount(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%s must be a non-negative number", name)
	}
	return &d, nil
}

// ListPayments lists the payments recorded against an order
// GET /orders/:id/payments
func (h *LedgerHandler) ListPayments(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// History returns the status timeline of an order
// GET /orders/:id/history
func (h *LedgerHandler) History(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	logs, err := h.service.History(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logs)
}

// ListCustomerDebts lists what customers owe
// GET /debts/customers
func (h *LedgerHandler) ListCustomerDebts(c *gin.Context) {
	h.listDebts(c, h.service.ListCustomerDebts)
}

// ListManufacturerDebts lists manufacturer debts
// GET /debts/manufacturers
func (h *LedgerHandler) ListManufacturerDebts(c *gin.Context) {
	h.listDebts(c, h.service.ListManufacturerDebts)
}

func (h *LedgerHandler) listDebts(c *gin.Context, list func(context.Context, ledger.DebtFilter) (ledger.Page[ledger.Debt], error)) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	page, err := list(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.Limit)
}

// GetDebt returns one debt
// GET /debts/:id
func (h *LedgerHandler) GetDebt(c *gin.Context) {
	debt, err := h.service.GetDebt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debt)
}

// ExportDebts returns a handler that downloads every matching debt of
// debtorType as an XLSX workbook
// GET /debts/customers/export, GET /debts/manufacturers/export
func (h *LedgerHandler) ExportDebts(debtorType ledger.DebtorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := h.bindFilter(c)
		if !ok {
			return
		}

		data, err := h.service.ExportDebts(c.Request.Context(), debtorType, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Attachment(c, ledgerapp.XLSXContentType, ledgerapp.ExportFileName(debtorType), data)
	}
}

func (h *LedgerHandler) bindFilter(c *gin.Context) (ledger.DebtFilter, bool) {
	var q DebtQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return ledger.DebtFilter{}, false
	}
	filter, err := q.Filter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return ledger.DebtFilter{}, false
	}
	return filter, true
}
