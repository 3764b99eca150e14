package handler

import (
	"context"
	"io"

	documentapp "github.com/dms/backend/internal/application/document"
	ledgerapp "github.com/dms/backend/internal/application/ledger"
	paymentapp "github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Summary(ctx context.Context, caller shared.Actor, orderID string) (*paymentapp.SummaryResult, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.SummaryResult), args.Error(1)
}

func (m *MockPaymentService) SubmitDeposit(ctx context.Context, caller shared.Actor, cmd paymentapp.DepositCommand) (*paymentapp.DepositResult, error) {
	args := m.Called(ctx, caller, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.DepositResult), args.Error(1)
}

func (m *MockPaymentService) SubmitFinalPayment(ctx context.Context, caller shared.Actor, cmd paymentapp.FinalPaymentCommand) (*paymentapp.FinalPaymentResult, error) {
	args := m.Called(ctx, caller, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.FinalPaymentResult), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GenerateContractForOrder(ctx context.Context, caller shared.Actor, orderID string) (*documentapp.Generated, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.Generated), args.Error(1)
}

func (m *MockDocumentService) GenerateQuote(ctx context.Context, data document.QuoteData, actor shared.Actor) (*documentapp.Generated, error) {
	args := m.Called(ctx, data, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.Generated), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, caller shared.Actor, orderID string) ([]documentapp.DocumentResponse, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]documentapp.DocumentResponse), args.Error(1)
}

func (m *MockDocumentService) OpenDocument(ctx context.Context, caller shared.Actor, id uuid.UUID) (*document.Record, io.ReadCloser, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*document.Record), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, caller shared.Actor, id uuid.UUID) (*documentapp.DownloadLink, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.DownloadLink), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListPayments(ctx context.Context, caller shared.Actor, orderID string) ([]order.Payment, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Payment), args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, caller shared.Actor, orderID string) ([]order.StatusLog, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusLog), args.Error(1)
}

func (m *MockLedgerService) ListCustomerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(ledger.Page[ledger.Debt]), args.Error(1)
}

func (m *MockLedgerService) ListManufacturerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(ledger.Page[ledger.Debt]), args.Error(1)
}

func (m *MockLedgerService) GetDebt(ctx context.Context, id string) (*ledger.Debt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Debt), args.Error(1)
}

func (m *MockLedgerService) ExportDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) ([]byte, error) {
	args := m.Called(ctx, debtorType, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockBankProfileService struct {
	mock.Mock
}

func (m *MockBankProfileService) CreateBankProfile(ctx context.Context, caller shared.Actor, req ledgerapp.CreateBankProfileRequest) (*ledger.BankProfile, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}

func (m *MockBankProfileService) GetBankProfile(ctx context.Context, caller shared.Actor, id string) (*ledger.BankProfile, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}

func (m *MockBankProfileService) UpdateBankProfileStatus(ctx context.Context, caller shared.Actor, id string, req ledgerapp.UpdateBankProfileStatusRequest) (*ledger.BankProfile, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BankProfile), args.Error(1)
}
