package ledger_test

import (
	"context"
	"time"

	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockOrderGateway is a mock implementation of order.Gateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderGateway) SubmitDeposit(ctx context.Context, orderID string, req order.DepositRequest) (*order.DepositResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.DepositResponse), args.Error(1)
}

func (m *MockOrderGateway) SubmitFinalPayment(ctx context.Context, orderID string, req order.FinalPaymentRequest) (*order.Order, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockHistoryGateway is a mock implementation of order.HistoryGateway
type MockHistoryGateway struct {
	mock.Mock
}

func (m *MockHistoryGateway) ListPayments(ctx context.Context, orderID string) ([]order.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Payment), args.Error(1)
}

func (m *MockHistoryGateway) ListStatusLogs(ctx context.Context, orderID string) ([]order.StatusLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusLog), args.Error(1)
}

// MockLedgerGateway is a mock implementation of ledger.Gateway
type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) ListDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	args := m.Called(ctx, debtorType, filter)
	return args.Get(0).(ledger.Page[ledger.Debt]), args.Error(1)
}

func (m *MockLedgerGateway) GetDebt(ctx context.Context, id string) (*ledger.Debt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Debt), args.Error(1)
}

func (m *MockLedgerGateway) CreateBankProfile(ctx context.Context, profile *ledger.BankProfile) (*ledger.BankProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}

func (m *MockLedgerGateway) GetBankProfile(ctx context.Context, id string) (*ledger.BankProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}

func (m *MockLedgerGateway) UpdateBankProfileStatus(ctx context.Context, id string, status ledger.BankProfileStatus, notes string) (*ledger.BankProfile, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

var fixedNow = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func money(v int64) valueobject.Money { return valueobject.NewMoneyFromInt(v) }

func newOrder(id, dealershipID string) *order.Order {
	return &order.Order{
		ID:          id,
		Code:        "HD-" + id,
		Dealership:  order.RefID[order.Dealership](dealershipID),
		FinalAmount: money(1_000_000_000),
		PaidAmount:  money(200_000_000),
		Status:      order.StatusDepositPaid,
	}
}

func manager() shared.Actor {
	return shared.Actor{UserID: "user-1", Role: shared.RoleDealerManager, DealershipID: "dealer-1"}
}

func evmStaff() shared.Actor {
	return shared.Actor{UserID: "evm-1", Role: shared.RoleEVMStaff}
}
