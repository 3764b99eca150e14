package order

import (
	"context"

	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// DepositRequest is the body of a deposit submission
type DepositRequest struct {
	Amount valueobject.Money
	Method PaymentMethod
	Notes  string
}

// DepositResponse is the backend's answer to a deposit
type DepositResponse struct {
	Order    *Order
	HasStock bool
}

// FinalPaymentRequest is the body of a final payment submission.
// The amount is never sent; the backend charges the remaining balance.
type FinalPaymentRequest struct {
	Method PaymentMethod
	Notes  string
}

// Gateway is the order side of the dealership backend
type Gateway interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	SubmitDeposit(ctx context.Context, orderID string, req DepositRequest) (*DepositResponse, error)
	SubmitFinalPayment(ctx context.Context, orderID string, req FinalPaymentRequest) (*Order, error)
}

// DirectoryGateway looks up full party records
type DirectoryGateway interface {
	GetDealership(ctx context.Context, id string) (*Dealership, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
}

// HistoryGateway reads ledger and timeline records for an order
type HistoryGateway interface {
	ListPayments(ctx context.Context, orderID string) ([]Payment, error)
	ListStatusLogs(ctx context.Context, orderID string) ([]StatusLog, error)
}
