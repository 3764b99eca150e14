package payment

import (
	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// NextStep tells the console which payment action is available
type NextStep string

const (
	NextStepDeposit      NextStep = "deposit"
	NextStepFinalPayment NextStep = "final_payment"
	NextStepNone         NextStep = "none"
)

// Outcome is how the backend handled an accepted deposit
type Outcome string

const (
	// OutcomeReserved means a vehicle was allocated from dealer stock
	OutcomeReserved Outcome = "reserved"
	// OutcomeRestockRequested means a vehicle request was sent to the manufacturer
	OutcomeRestockRequested Outcome = "restock_requested"
)

// SummaryResult is the payment position of an order
type SummaryResult struct {
	OrderID   string       `json:"order_id"`
	OrderCode string       `json:"order_code"`
	Status    order.Status `json:"status"`
	order.Summary
	NextStep NextStep `json:"next_step"`
}

// DepositCommand asks for a deposit of DepositPercent of the order total
type DepositCommand struct {
	OrderID        string
	DepositPercent decimal.Decimal
	Method         order.PaymentMethod
	Notes          string
}

// DepositResult reports an accepted deposit
type DepositResult struct {
	Order    *order.Order      `json:"order"`
	Amount   valueobject.Money `json:"amount"`
	Outcome  Outcome           `json:"outcome"`
	Payments []order.Payment   `json:"payments"`
	Warning  string            `json:"warning,omitempty"`
	// Recovered is set when the backend first reported insufficient stock and
	// the order settled during the re-check window
	Recovered bool `json:"recovered"`
}

// FinalPaymentCommand asks to charge the remaining balance
type FinalPaymentCommand struct {
	OrderID string
	Method  order.PaymentMethod
	Notes   string
}

// ContractResult reports the contract step that follows a full payment
type ContractResult struct {
	Attempted bool             `json:"attempted"`
	Generated bool             `json:"generated"`
	Duplicate bool             `json:"duplicate,omitempty"`
	Document  *document.Record `json:"document,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// FinalPaymentResult reports a settled final payment. The payment stands even
// when Contract carries an error.
type FinalPaymentResult struct {
	Order    *order.Order      `json:"order"`
	Amount   valueobject.Money `json:"amount"`
	Payments []order.Payment   `json:"payments"`
	Contract ContractResult    `json:"contract"`
}
