package handler

import (
	"context"

	ledgerapp "github.com/dms/backend/internal/application/ledger"
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// BankProfileService manages installment financing profiles
type BankProfileService interface {
	CreateBankProfile(ctx context.Context, caller shared.Actor, req ledgerapp.CreateBankProfileRequest) (*ledger.BankProfile, error)
	GetBankProfile(ctx context.Context, caller shared.Actor, id string) (*ledger.BankProfile, error)
	UpdateBankProfileStatus(ctx context.Context, caller shared.Actor, id string, req ledgerapp.UpdateBankProfileStatusRequest) (*ledger.BankProfile, error)
}

// BankProfileHandler handles bank financing profile endpoints
type BankProfileHandler struct {
	BaseHandler
	service BankProfileService
}

// NewBankProfileHandler creates a new BankProfileHandler
func NewBankProfileHandler(service BankProfileService) *BankProfileHandler {
	return &BankProfileHandler{service: service}
}

// Create opens a bank profile for an order
// POST /bank-profiles
func (h *BankProfileHandler) Create(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req ledgerapp.CreateBankProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.service.CreateBankProfile(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// Get returns a bank profile
// GET /bank-profiles/:id
func (h *BankProfileHandler) Get(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	profile, err := h.service.GetBankProfile(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateStatus moves a bank profile along its approval pipeline
// PUT /bank-profiles/:id/status
func (h *BankProfileHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actorFrom(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateBankProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.service.UpdateBankProfileStatus(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
