package payment_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Implementations
// =============================================================================

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

type MockContractGenerator struct {
	mock.Mock
}

func (m *MockContractGenerator) ContractForOrder(ctx context.Context, caller shared.Actor, o *order.Order) (*document.Record, error) {
	args := m.Called(ctx, caller, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Record), args.Error(1)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// recordingMetrics counts metric calls by label
type recordingMetrics struct {
	mu        sync.Mutex
	steps     map[string]int
	contracts map[string]int
	rechecks  int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{steps: map[string]int{}, contracts: map[string]int{}}
}

func (m *recordingMetrics) PaymentStep(_ context.Context, step, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[step+"/"+outcome]++
}

func (m *recordingMetrics) ContractGenerated(_ context.Context, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[outcome]++
}

func (m *recordingMetrics) StockRecheck(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rechecks++
}

// upstreamErr mimics a backend client error
type upstreamErr struct {
	status int
	msg    string
}

func (e *upstreamErr) Error() string           { return fmt.Sprintf("HTTP %d: %s", e.status, e.msg) }
func (e *upstreamErr) UpstreamMessage() string { return e.msg }
func (e *upstreamErr) UpstreamStatus() int     { return e.status }

// =============================================================================
// Fixtures
// =============================================================================

const testDealership = "dealer-1"

func newOrder(id string, status order.Status, final, paid int64) *order.Order {
	return &order.Order{
		ID:          id,
		Code:        "ORD-" + id,
		Customer:    order.RefID[order.Customer]("cust-1"),
		Dealership:  order.RefID[order.Dealership](testDealership),
		FinalAmount: valueobject.NewMoneyFromInt(final),
		PaidAmount:  valueobject.NewMoneyFromInt(paid),
		Status:      status,
	}
}

func manager() shared.Actor {
	return shared.Actor{UserID: "u-1", Role: shared.RoleDealerManager, DealershipID: testDealership}
}

func noWait(context.Context, time.Duration) error { return nil }
