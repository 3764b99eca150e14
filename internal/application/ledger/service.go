// Package ledger serves the read side of an order's money trail (payments,
// status history, debts) and the bank financing profiles attached to orders.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dms/backend/internal/application/payment"
	"github.com/dms/backend/internal/domain/ledger"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	bankProfileKeyPrefix = "bank_profile:order:"
	bankProfileClaimTTL  = 5 * 365 * 24 * time.Hour
)

// Errors returned by the ledger service
var (
	ErrInvalidDebtorType = shared.NewDomainError("INVALID_DEBTOR_TYPE", "Loại công nợ không hợp lệ")
	ErrBankProfileExists = shared.NewClassifiedError(shared.ClassTerminal, "BANK_PROFILE_EXISTS", "Đơn hàng đã có hồ sơ vay ngân hàng")
)

// Service reads payments, timelines and debts from the dealership backend
// and manages bank financing profiles
type Service struct {
	orders   order.Gateway
	history  order.HistoryGateway
	ledger   ledger.Gateway
	claims   shared.IdempotencyStore
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the clock used to derive debt status
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a ledger Service. claims may be nil, in which case the
// one-profile-per-order rule is left to the backend.
func NewService(orders order.Gateway, history order.HistoryGateway, gateway ledger.Gateway, claims shared.IdempotencyStore, opts ...Option) *Service {
	s := &Service{
		orders:   orders,
		history:  history,
		ledger:   gateway,
		claims:   claims,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("ledger")
	return s
}

// =============================================================================
// Order money trail
// =============================================================================

// ListPayments returns the payment records of an order
func (s *Service) ListPayments(ctx context.Context, caller shared.Actor, orderID string) ([]order.Payment, error) {
	if _, err := s.loadOrder(ctx, caller, orderID); err != nil {
		return nil, err
	}
	payments, err := s.history.ListPayments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []order.Payment{}
	}
	return payments, nil
}

// History returns the status timeline of an order, oldest first
func (s *Service) History(ctx context.Context, caller shared.Actor, orderID string) ([]order.StatusLog, error) {
	if _, err := s.loadOrder(ctx, caller, orderID); err != nil {
		return nil, err
	}
	logs, err := s.history.ListStatusLogs(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]order.StatusLog, 0, len(logs))
	for _, l := range logs {
		if l.DeletedAt == nil {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b order.StatusLog) int {
		return a.ChangedAt.Compare(b.ChangedAt)
	})
	return out, nil
}

// =============================================================================
// Debts
// =============================================================================

// ListCustomerDebts lists what customers owe
func (s *Service) ListCustomerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	return s.listDebts(ctx, ledger.DebtorCustomer, filter)
}

// ListManufacturerDebts lists what is owed to or by manufacturers
func (s *Service) ListManufacturerDebts(ctx context.Context, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	return s.listDebts(ctx, ledger.DebtorManufacturer, filter)
}

// GetDebt returns one debt with its remaining amount and status recomputed
func (s *Service) GetDebt(ctx context.Context, id string) (*ledger.Debt, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Thiếu mã công nợ")
	}
	d, err := s.ledger.GetDebt(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Normalize(s.now())
	return d, nil
}

func (s *Service) listDebts(ctx context.Context, debtorType ledger.DebtorType, filter ledger.DebtFilter) (ledger.Page[ledger.Debt], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "ListDebts",
		telemetry.WithAttribute(telemetry.SpanAttrDebtorType, string(debtorType)))
	defer span.End()

	if !debtorType.IsValid() {
		return ledger.Page[ledger.Debt]{}, ErrInvalidDebtorType
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return ledger.Page[ledger.Debt]{}, shared.ErrInvalidInput.WithMessage("Trạng thái công nợ không hợp lệ")
	}

	page, err := s.ledger.ListDebts(ctx, debtorType, filter.Normalize())
	if err != nil {
		telemetry.RecordError(span, err)
		return ledger.Page[ledger.Debt]{}, err
	}
	now := s.now()
	for i := range page.Items {
		page.Items[i].Normalize(now)
	}
	telemetry.SetOK(span)
	return page, nil
}

// =============================================================================
// Bank profiles
// =============================================================================

// CreateBankProfile validates and opens the financing profile of an order.
// An order holds at most one profile.
func (s *Service) CreateBankProfile(ctx context.Context, caller shared.Actor, req CreateBankProfileRequest) (*ledger.BankProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	profile, err := ledger.NewBankProfile(req.OrderID, req.BankName,
		valueobject.NewMoney(req.LoanAmount), req.LoanTermMonths, req.InterestRate, req.Documents)
	if err != nil {
		return nil, err
	}
	profile.AccountNumber = strings.TrimSpace(req.AccountNumber)
	profile.AccountHolder = strings.TrimSpace(req.AccountHolder)
	profile.Notes = req.Notes

	o, err := s.loadOrder(ctx, caller, req.OrderID)
	if err != nil {
		return nil, err
	}
	if profile.LoanAmount.GreaterThan(o.FinalAmount) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Số tiền vay vượt quá giá trị đơn hàng")
	}

	log := logger.Enrich(ctx, s.logger).With(zap.String("order_id", req.OrderID))
	key := bankProfileKeyPrefix + req.OrderID
	if s.claims != nil {
		claimed, err := s.claims.MarkProcessed(ctx, key, bankProfileClaimTTL)
		if err != nil {
			return nil, fmt.Errorf("claim bank profile: %w", err)
		}
		if !claimed {
			return nil, ErrBankProfileExists
		}
	}

	created, err := s.ledger.CreateBankProfile(ctx, profile)
	if err != nil {
		if s.claims != nil {
			if relErr := s.claims.Release(context.WithoutCancel(ctx), key); relErr != nil {
				log.Error("failed to release bank profile claim", zap.Error(relErr))
			}
		}
		return nil, err
	}
	log.Info("bank profile created",
		zap.String("profile_id", created.ID),
		zap.String("bank", created.BankName))
	return created, nil
}

// GetBankProfile returns one financing profile
func (s *Service) GetBankProfile(ctx context.Context, caller shared.Actor, id string) (*ledger.BankProfile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Thiếu mã hồ sơ vay")
	}
	p, err := s.ledger.GetBankProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role.IsDealershipScoped() && p.OrderID != "" {
		if _, err := s.loadOrder(ctx, caller, p.OrderID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateBankProfileStatus moves a profile forward. The transition is checked
// against the current status before anything is sent to the backend.
func (s *Service) UpdateBankProfileStatus(ctx context.Context, caller shared.Actor, id string, req UpdateBankProfileStatusRequest) (*ledger.BankProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	current, err := s.GetBankProfile(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := current.ValidateTransition(req.Status); err != nil {
		return nil, err
	}
	updated, err := s.ledger.UpdateBankProfileStatus(ctx, id, req.Status, req.Notes)
	if err != nil {
		return nil, err
	}
	logger.Enrich(ctx, s.logger).Info("bank profile status changed",
		zap.String("profile_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(req.Status)))
	return updated, nil
}

func (s *Service) loadOrder(ctx context.Context, caller shared.Actor, orderID string) (*order.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Thiếu mã đơn hàng")
	}
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccessDealership(o.DealershipID()) {
		return nil, payment.ErrDealershipMismatch
	}
	return o, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.ErrInvalidInput
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Namespace())
	}
	return shared.ErrInvalidInput.WithMessage("Dữ liệu không hợp lệ: " + strings.Join(fields, ", "))
}
