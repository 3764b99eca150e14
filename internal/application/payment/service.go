// Package payment drives the two-step payment lifecycle of a dealership order:
// a percentage deposit while the order is pending, then the remaining balance
// once the vehicle is ready, followed by contract generation.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ContractGenerator produces and stores the sales contract of an order
type ContractGenerator interface {
	ContractForOrder(ctx context.Context, caller shared.Actor, o *order.Order) (*document.Record, error)
}

// Metrics receives payment lifecycle counters
type Metrics interface {
	PaymentStep(ctx context.Context, step, outcome string)
	ContractGenerated(ctx context.Context, outcome string)
	StockRecheck(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) PaymentStep(context.Context, string, string) {}
func (noopMetrics) ContractGenerated(context.Context, string)   {}
func (noopMetrics) StockRecheck(context.Context)                {}

// Service implements the payment lifecycle on top of the dealership backend
type Service struct {
	orders     order.Gateway
	history    order.HistoryGateway
	contracts  ContractGenerator
	claims     shared.IdempotencyStore
	events     shared.EventPublisher
	translator *MessageTranslator
	cfg        Config
	wait       WaitFunc
	metrics    Metrics
	logger     *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithWaitFunc replaces the timer used between stock re-checks
func WithWaitFunc(w WaitFunc) Option {
	return func(s *Service) {
		if w != nil {
			s.wait = w
		}
	}
}

// WithEventPublisher sets where lifecycle events are published
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// NewService creates a payment Service
func NewService(
	orders order.Gateway,
	history order.HistoryGateway,
	contracts ContractGenerator,
	claims shared.IdempotencyStore,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		orders:     orders,
		history:    history,
		contracts:  contracts,
		claims:     claims,
		translator: NewMessageTranslator(),
		cfg:        cfg,
		wait:       SleepContext,
		metrics:    noopMetrics{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("payment")
	return s
}

// Summary returns the payment position of the freshest order snapshot
func (s *Service) Summary(ctx context.Context, caller shared.Actor, orderID string) (*SummaryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "Summary",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID))
	defer span.End()

	o, err := s.loadOrder(ctx, caller, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	sum := o.Summarize()
	next := NextStepNone
	switch {
	case sum.IsFirstPayment:
		next = NextStepDeposit
	case sum.Progress < 100:
		next = NextStepFinalPayment
	}

	telemetry.SetOK(span)
	return &SummaryResult{
		OrderID:   o.ID,
		OrderCode: o.Code,
		Status:    o.Status,
		Summary:   sum,
		NextStep:  next,
	}, nil
}

// SubmitDeposit takes a percentage deposit on a pending order.
// Guards run in order (ownership, status, amount) and no backend call is
// made when one fails.
func (s *Service) SubmitDeposit(ctx context.Context, caller shared.Actor, cmd DepositCommand) (*DepositResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "SubmitDeposit",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, cmd.OrderID))
	defer span.End()
	log := logger.Enrich(ctx, s.logger).With(zap.String("order_id", cmd.OrderID))

	o, err := s.loadOrder(ctx, caller, cmd.OrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if o.Status != order.StatusPending {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeRejected)
		return nil, ErrDepositRequiresPending
	}
	amount, err := s.cfg.Deposit.Amount(o.FinalAmount, cmd.DepositPercent)
	if err != nil {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeRejected)
		return nil, err
	}
	if !amount.IsPositive() {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeRejected)
		return nil, ErrInvalidDepositAmount
	}
	if amount.GreaterThan(o.RemainingAmount()) {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeRejected)
		return nil, ErrAmountExceedsRemaining
	}
	if !cmd.Method.IsValid() {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeRejected)
		return nil, ErrInvalidPaymentMethod
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, amount.String())

	resp, err := s.orders.SubmitDeposit(ctx, o.ID, order.DepositRequest{
		Amount: amount,
		Method: cmd.Method,
		Notes:  cmd.Notes,
	})
	if err != nil {
		translated := s.translator.Translate(err)
		if !errors.Is(translated, ErrInsufficientStock) {
			s.metrics.PaymentStep(ctx, stepDeposit, outcomeFailed)
			telemetry.RecordError(span, translated)
			log.Warn("deposit rejected by backend", zap.Error(err))
			return nil, translated
		}
		log.Info("deposit reported insufficient stock, re-checking order", zap.Error(err))
		return s.awaitStock(ctx, caller, o, amount, cmd)
	}

	result := &DepositResult{
		Order:   resp.Order,
		Amount:  amount,
		Outcome: OutcomeReserved,
	}
	if result.Order == nil {
		result.Order = o
	}
	if !resp.HasStock || result.Order.Status == order.StatusWaitingVehicleRequest {
		result.Outcome = OutcomeRestockRequested
		result.Warning = "Xe tạm hết hàng tại đại lý, yêu cầu xe đã được gửi tới hãng"
	}
	s.checkInvariant(ctx, result.Order)
	result.Payments = s.reloadPayments(ctx, o.ID)

	s.publish(ctx, order.NewDepositSubmittedEvent(result.Order, amount, cmd.Method, resp.HasStock, false, caller.UserID))
	s.metrics.PaymentStep(ctx, stepDeposit, string(result.Outcome))
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, string(result.Outcome),
		telemetry.SpanAttrOrderStatus, string(result.Order.Status))
	telemetry.SetOK(span)
	log.Info("deposit submitted",
		zap.String("amount", amount.String()),
		zap.String("outcome", string(result.Outcome)))
	return result, nil
}

// awaitStock re-reads the order with bounded backoff after the backend reported
// insufficient stock. The deposit counts as accepted once the order has moved
// out of pending into a deposit state.
func (s *Service) awaitStock(ctx context.Context, caller shared.Actor, o *order.Order, amount valueobject.Money, cmd DepositCommand) (*DepositResult, error) {
	log := logger.Enrich(ctx, s.logger).With(zap.String("order_id", o.ID))

	fetch := func(ctx context.Context, attempt int) (*order.Order, error) {
		s.metrics.StockRecheck(ctx)
		fresh, err := s.orders.GetOrder(ctx, o.ID)
		if err != nil {
			log.Warn("stock re-check failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}
		log.Debug("stock re-check", zap.Int("attempt", attempt), zap.String("status", string(fresh.Status)))
		return fresh, nil
	}
	settled := func(fresh *order.Order) bool {
		return fresh.Status == order.StatusWaitingVehicleRequest || fresh.Status == order.StatusDepositPaid
	}

	fresh, ok, err := s.cfg.Convergence.Await(ctx, s.wait, fetch, settled)
	if err != nil {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeFailed)
		return nil, err
	}
	if !ok {
		s.metrics.PaymentStep(ctx, stepDeposit, outcomeStockPending)
		log.Warn("order did not settle after insufficient stock", zap.Int("attempts", s.cfg.Convergence.Attempts))
		return nil, ErrStockPending
	}

	result := &DepositResult{
		Order:     fresh,
		Amount:    amount,
		Outcome:   OutcomeReserved,
		Recovered: true,
		Warning:   "Hệ thống báo thiếu hàng nhưng đơn hàng đã được ghi nhận đặt cọc",
	}
	if fresh.Status == order.StatusWaitingVehicleRequest {
		result.Outcome = OutcomeRestockRequested
		result.Warning = "Xe tạm hết hàng, đơn hàng đã được ghi nhận đặt cọc và chuyển sang chờ yêu cầu xe từ hãng"
	}
	s.checkInvariant(ctx, fresh)
	result.Payments = s.reloadPayments(ctx, o.ID)

	hasStock := result.Outcome == OutcomeReserved
	s.publish(ctx, order.NewDepositSubmittedEvent(fresh, amount, cmd.Method, hasStock, true, caller.UserID))
	s.metrics.PaymentStep(ctx, stepDeposit, string(result.Outcome))
	log.Info("deposit recovered after stock re-check", zap.String("status", string(fresh.Status)))
	return result, nil
}

// SubmitFinalPayment charges the remaining balance of an order whose vehicle
// is ready, then generates the contract once the order becomes fully paid
func (s *Service) SubmitFinalPayment(ctx context.Context, caller shared.Actor, cmd FinalPaymentCommand) (*FinalPaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "SubmitFinalPayment",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, cmd.OrderID))
	defer span.End()
	log := logger.Enrich(ctx, s.logger).With(zap.String("order_id", cmd.OrderID))

	o, err := s.loadOrder(ctx, caller, cmd.OrderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	switch o.Status {
	case order.StatusVehicleReady:
	case order.StatusDepositPaid:
		s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeRejected)
		return nil, ErrVehicleNotReady
	default:
		s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeRejected)
		return nil, ErrFinalPaymentRequiresVehicleReady
	}
	amount := o.RemainingAmount()
	if !amount.IsPositive() {
		s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeRejected)
		return nil, ErrAlreadyFullyPaid
	}
	if !cmd.Method.IsValid() {
		s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeRejected)
		return nil, ErrInvalidPaymentMethod
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, amount.String())

	updated, err := s.orders.SubmitFinalPayment(ctx, o.ID, order.FinalPaymentRequest{
		Method: cmd.Method,
		Notes:  cmd.Notes,
	})
	if err != nil {
		translated := s.translator.Translate(err)
		s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeFailed)
		telemetry.RecordError(span, translated)
		log.Warn("final payment rejected by backend", zap.Error(err))
		return nil, translated
	}
	if updated == nil {
		updated = o
	}
	s.checkInvariant(ctx, updated)

	result := &FinalPaymentResult{
		Order:    updated,
		Amount:   amount,
		Payments: s.reloadPayments(ctx, o.ID),
	}
	s.publish(ctx, order.NewFinalPaymentSettledEvent(updated, amount, cmd.Method, caller.UserID))
	s.metrics.PaymentStep(ctx, stepFinalPayment, outcomeSettled)
	log.Info("final payment settled",
		zap.String("amount", amount.String()),
		zap.String("status", string(updated.Status)))

	if updated.Status == order.StatusFullyPaid {
		result.Contract = s.generateContract(ctx, caller, updated)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderStatus, string(updated.Status))
	telemetry.SetOK(span)
	return result, nil
}

// loadOrder fetches the order and checks the caller may act on it
func (s *Service) loadOrder(ctx context.Context, caller shared.Actor, orderID string) (*order.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Thiếu mã đơn hàng")
	}
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.translator.Translate(err)
	}
	if !caller.CanAccessDealership(o.DealershipID()) {
		logger.Enrich(ctx, s.logger).Warn("dealership mismatch",
			zap.String("order_id", orderID),
			zap.String("order_dealership", o.DealershipID()),
			zap.String("caller_dealership", caller.DealershipID))
		return nil, ErrDealershipMismatch
	}
	return o, nil
}

func (s *Service) reloadPayments(ctx context.Context, orderID string) []order.Payment {
	if s.history == nil {
		return nil
	}
	payments, err := s.history.ListPayments(ctx, orderID)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to reload payments", zap.String("order_id", orderID), zap.Error(err))
		return nil
	}
	return payments
}

func (s *Service) checkInvariant(ctx context.Context, o *order.Order) {
	if err := o.Validate(); err != nil {
		logger.Enrich(ctx, s.logger).Error("backend returned inconsistent order amounts",
			zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("failed to publish payment events", zap.Error(err))
	}
}
