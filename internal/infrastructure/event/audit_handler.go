package event

import (
	"context"

	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PaymentAuditHandler writes one structured audit line per payment lifecycle event
type PaymentAuditHandler struct {
	logger *zap.Logger
}

// NewPaymentAuditHandler creates the handler
func NewPaymentAuditHandler(l *zap.Logger) *PaymentAuditHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &PaymentAuditHandler{logger: l.Named("audit")}
}

// EventTypes returns the payment and contract events
func (h *PaymentAuditHandler) EventTypes() []string {
	return []string{
		order.EventTypeDepositSubmitted,
		order.EventTypeFinalPaymentSettled,
		order.EventTypeContractGenerated,
		order.EventTypeContractGenerationFailed,
	}
}

// Handle logs the event with correlation fields from ctx
func (h *PaymentAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	log := logger.Enrich(ctx, h.logger).With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("order_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	)

	switch e := event.(type) {
	case *order.DepositSubmittedEvent:
		log.Info("Deposit submitted",
			zap.String("order_code", e.OrderCode),
			zap.Stringer("amount", e.Amount),
			zap.String("method", string(e.Method)),
			zap.Bool("has_stock", e.HasStock),
			zap.Bool("recovered", e.Recovered),
			zap.String("actor_id", e.ActorID),
		)
	case *order.FinalPaymentSettledEvent:
		log.Info("Final payment settled",
			zap.String("order_code", e.OrderCode),
			zap.Stringer("amount", e.Amount),
			zap.String("method", string(e.Method)),
			zap.String("new_status", e.NewStatus.String()),
			zap.String("actor_id", e.ActorID),
		)
	case *order.ContractGeneratedEvent:
		log.Info("Contract generated",
			zap.String("order_code", e.OrderCode),
			zap.String("document_id", e.DocumentID),
			zap.String("file_name", e.FileName),
		)
	case *order.ContractGenerationFailedEvent:
		log.Warn("Contract generation failed",
			zap.String("order_code", e.OrderCode),
			zap.String("reason", e.Reason),
		)
	default:
		log.Debug("Unhandled audit event")
	}
	return nil
}

var _ shared.EventHandler = (*PaymentAuditHandler)(nil)
