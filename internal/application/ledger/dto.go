package ledger

import (
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateBankProfileRequest opens installment financing for an order
type CreateBankProfileRequest struct {
	OrderID        string                `json:"order_id" validate:"required"`
	BankName       string                `json:"bank_name" validate:"required,max=200"`
	AccountNumber  string                `json:"account_number,omitempty" validate:"omitempty,max=50"`
	AccountHolder  string                `json:"account_holder,omitempty" validate:"omitempty,max=200"`
	LoanAmount     decimal.Decimal       `json:"loan_amount"`
	LoanTermMonths int                   `json:"loan_term_months" validate:"required,min=1,max=360"`
	InterestRate   decimal.Decimal       `json:"interest_rate"`
	Documents      []ledger.BankDocument `json:"documents,omitempty" validate:"omitempty,dive"`
	Notes          string                `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBankProfileStatusRequest moves a profile along the approval pipeline
type UpdateBankProfileStatusRequest struct {
	Status ledger.BankProfileStatus `json:"status" validate:"required"`
	Notes  string                   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
