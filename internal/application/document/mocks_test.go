package document_test

import (
	"context"
	"sync"
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDirectoryGateway is a mock implementation of order.DirectoryGateway
type MockDirectoryGateway struct {
	mock.Mock
}

func (m *MockDirectoryGateway) GetDealership(ctx context.Context, id string) (*order.Dealership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Dealership), args.Error(1)
}

func (m *MockDirectoryGateway) GetCustomer(ctx context.Context, id string) (*order.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Customer), args.Error(1)
}

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

// fakeRenderer returns the HTML it was given as the "PDF" bytes
type fakeRenderer struct {
	mu       sync.Mutex
	requests []*printing.RenderRequest
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4\n" + req.HTML), PageCount: 1, RenderDuration: 5 * time.Millisecond}, nil
}

func (r *fakeRenderer) Close() error { return nil }

func (r *fakeRenderer) lastHTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return ""
	}
	return r.requests[len(r.requests)-1].HTML
}

// memoryRepository is an in-memory document.Repository
type memoryRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]document.Record
	saveErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[uuid.UUID]document.Record)}
}

func (r *memoryRepository) Save(_ context.Context, rec *document.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &rec, nil
}

func (r *memoryRepository) FindByOrder(_ context.Context, orderID string) ([]document.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []document.Record
	for _, rec := range r.records {
		if rec.OrderID == orderID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type recordingMetrics struct {
	kinds []string
}

func (m *recordingMetrics) DocumentRendered(_ context.Context, kind string, _ time.Duration) {
	m.kinds = append(m.kinds, kind)
}

// =============================================================================
// Fixtures
// =============================================================================

var fixedNow = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func money(v int64) valueobject.Money { return valueobject.NewMoneyFromInt(v) }

func fullDealership() order.Dealership {
	return order.Dealership{
		ID:                  "dealer-1",
		CompanyName:         "Công ty CP Ô tô Long Biên",
		Name:                "Đại lý Long Biên",
		Address:             &order.Address{Street: "1 Nguyễn Văn Cừ", Ward: "Ngọc Lâm", District: "Long Biên", City: "Hà Nội"},
		Contact:             &order.Contact{Phone: "024 3333 4444", Email: "lb@dealer.vn"},
		TaxCode:             "0101234567",
		LegalRepresentative: "Trần Văn B",
	}
}

func fullCustomer() order.Customer {
	return order.Customer{
		ID:       "cust-1",
		FullName: "Nguyễn Văn A",
		Phone:    "0901234567",
		Email:    "a@example.com",
		Address:  &order.Address{FullAddress: "12 Lê Lợi, Hoàn Kiếm, Hà Nội"},
		IDNumber: "001099000123",
	}
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:          "ord-1",
		Code:        "HD001",
		Customer:    order.RefID[order.Customer]("cust-1"),
		Dealership:  order.RefID[order.Dealership]("dealer-1"),
		FinalAmount: money(1_003_000_000),
		PaidAmount:  money(1_003_000_000),
		Status:      order.StatusFullyPaid,
		Items: []order.Item{{
			Vehicle:     order.RefResolved(order.Vehicle{ID: "veh-1", Name: "VinFast VF 8", Version: "Plus"}),
			Color:       "Đỏ",
			Quantity:    1,
			UnitPrice:   money(1_000_000_000),
			Accessories: []order.Addon{{Name: "Thảm sàn", Price: money(1_500_000), Quantity: 2}},
		}},
		PaymentMethod: string(order.PaymentMethodBank),
	}
}

func manager() shared.Actor {
	return shared.Actor{UserID: "user-1", Username: "manager", Role: shared.RoleDealerManager, DealershipID: "dealer-1"}
}
