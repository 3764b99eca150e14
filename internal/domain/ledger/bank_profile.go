package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BankProfileStatus is the position of an installment application in the
// bank approval pipeline
type BankProfileStatus string

const (
	BankProfilePending     BankProfileStatus = "pending"
	BankProfileSubmitted   BankProfileStatus = "submitted"
	BankProfileUnderReview BankProfileStatus = "under_review"
	BankProfileApproved    BankProfileStatus = "approved"
	BankProfileRejected    BankProfileStatus = "rejected"
	BankProfileFunded      BankProfileStatus = "funded"
	BankProfileCanceled    BankProfileStatus = "canceled"
)

// pipelineRank orders the statuses; approved and rejected share a rank
var pipelineRank = map[BankProfileStatus]int{
	BankProfilePending:     0,
	BankProfileSubmitted:   1,
	BankProfileUnderReview: 2,
	BankProfileApproved:    3,
	BankProfileRejected:    3,
	BankProfileFunded:      4,
}

// IsValid checks if the status is known
func (s BankProfileStatus) IsValid() bool {
	if s == BankProfileCanceled {
		return true
	}
	_, ok := pipelineRank[s]
	return ok
}

// IsTerminal reports whether the profile can no longer move
func (s BankProfileStatus) IsTerminal() bool {
	return s == BankProfileRejected || s == BankProfileFunded || s == BankProfileCanceled
}

// CanTransitionTo allows only forward moves through the pipeline, funding
// only after approval, and cancellation from any non-terminal status
func (s BankProfileStatus) CanTransitionTo(target BankProfileStatus) bool {
	if s.IsTerminal() || !target.IsValid() || s == target {
		return false
	}
	if target == BankProfileCanceled {
		return true
	}
	if target == BankProfileFunded {
		return s == BankProfileApproved
	}
	return pipelineRank[target] > pipelineRank[s]
}

// DocumentType classifies an attached financing document
type DocumentType string

const (
	DocumentTypeIdentity  DocumentType = "identity"
	DocumentTypeIncome    DocumentType = "income"
	DocumentTypeResidence DocumentType = "residence"
	DocumentTypeContract  DocumentType = "contract"
	DocumentTypeOther     DocumentType = "other"
)

// BankDocument is a file attached to a bank profile
type BankDocument struct {
	Name string       `json:"name" validate:"required"`
	Type DocumentType `json:"type" validate:"required"`
	URL  string       `json:"url" validate:"required,url"`
}

// BankProfile is the installment financing record of an order
type BankProfile struct {
	ID             string            `json:"_id"`
	OrderID        string            `json:"order_id"`
	BankName       string            `json:"bank_name"`
	AccountNumber  string            `json:"account_number,omitempty"`
	AccountHolder  string            `json:"account_holder,omitempty"`
	LoanAmount     valueobject.Money `json:"loan_amount"`
	LoanTermMonths int               `json:"loan_term_months"`
	InterestRate   decimal.Decimal   `json:"interest_rate"`
	Status         BankProfileStatus `json:"status"`
	Documents      []BankDocument    `json:"documents,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsEditable reports whether the submission form may still change the profile
func (p *BankProfile) IsEditable() bool {
	return pipelineRank[p.Status] < pipelineRank[BankProfileApproved] && p.Status != BankProfileCanceled
}

// ValidateTransition checks that the profile may move to target
func (p *BankProfile) ValidateTransition(target BankProfileStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_BANK_PROFILE_STATUS", fmt.Sprintf("Unknown bank profile status %q", target))
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf(
			"Bank profile cannot move from %s to %s", p.Status, target))
	}
	return nil
}

// NewBankProfile validates the fields of a new application
func NewBankProfile(orderID, bankName string, loan valueobject.Money, termMonths int, rate decimal.Decimal, docs []BankDocument) (*BankProfile, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	if strings.TrimSpace(bankName) == "" {
		return nil, shared.NewDomainError("INVALID_BANK", "Bank name is required")
	}
	if !loan.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Loan amount must be positive")
	}
	if termMonths <= 0 {
		return nil, shared.NewDomainError("INVALID_TERM", "Loan term must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	return &BankProfile{
		OrderID:        orderID,
		BankName:       strings.TrimSpace(bankName),
		LoanAmount:     loan,
		LoanTermMonths: termMonths,
		InterestRate:   rate,
		Status:         BankProfilePending,
		Documents:      docs,
	}, nil
}
