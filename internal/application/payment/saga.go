package payment

import (
	"context"

	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/logger"
	"github.com/dms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// generateContract is the second step after a full payment. The order is
// claimed under its contract key so concurrent settlements of the same order
// produce a single contract; a failed attempt releases the claim so the
// contract can be generated again later. Failures never undo the payment.
func (s *Service) generateContract(ctx context.Context, caller shared.Actor, o *order.Order) ContractResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "GenerateContract",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, o.ID))
	defer span.End()
	log := logger.Enrich(ctx, s.logger).With(zap.String("order_id", o.ID))

	result := ContractResult{Attempted: true}
	if s.contracts == nil || s.claims == nil {
		result.Attempted = false
		return result
	}

	key := ContractKey(o.ID)
	claimed, err := s.claims.MarkProcessed(ctx, key, s.cfg.ContractClaimTTL)
	if err != nil {
		log.Error("failed to claim contract generation", zap.String("key", key), zap.Error(err))
		s.metrics.ContractGenerated(ctx, contractOutcomeStoreError)
		telemetry.RecordError(span, err)
		result.Error = "Không thể khóa tác vụ tạo hợp đồng, vui lòng tải hợp đồng sau"
		return result
	}
	if !claimed {
		log.Info("contract generation already claimed", zap.String("key", key))
		s.metrics.ContractGenerated(ctx, contractOutcomeDuplicate)
		telemetry.AddEvent(span, "contract_claim_held", telemetry.SpanAttrOutcome, contractOutcomeDuplicate)
		result.Duplicate = true
		return result
	}

	rec, err := s.contracts.ContractForOrder(ctx, caller, o)
	if err != nil {
		if relErr := s.claims.Release(context.WithoutCancel(ctx), key); relErr != nil {
			log.Error("failed to release contract claim", zap.String("key", key), zap.Error(relErr))
		}
		log.Error("contract generation failed after full payment", zap.Error(err))
		s.metrics.ContractGenerated(ctx, contractOutcomeFailed)
		s.publish(ctx, order.NewContractGenerationFailedEvent(o.ID, o.Code, err.Error()))
		telemetry.RecordError(span, err)
		result.Error = err.Error()
		return result
	}

	result.Generated = true
	result.Document = rec
	s.metrics.ContractGenerated(ctx, contractOutcomeGenerated)
	s.publish(ctx, order.NewContractGeneratedEvent(o.ID, o.Code, rec.ID.String(), rec.FileName))
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, rec.ID.String())
	telemetry.SetOK(span)
	log.Info("contract generated", zap.String("document_id", rec.ID.String()))
	return result
}
