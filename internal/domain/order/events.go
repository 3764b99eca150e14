package order

import (
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// AggregateTypeOrder is the aggregate type for order events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeDepositSubmitted         = "DepositSubmitted"
	EventTypeFinalPaymentSettled      = "FinalPaymentSettled"
	EventTypeContractGenerated        = "ContractGenerated"
	EventTypeContractGenerationFailed = "ContractGenerationFailed"
)

// DepositSubmittedEvent is raised after the backend accepts a deposit
type DepositSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderCode string            `json:"order_code"`
	Amount    valueobject.Money `json:"amount"`
	Method    PaymentMethod     `json:"method"`
	HasStock  bool              `json:"has_stock"`
	Recovered bool              `json:"recovered"`
	ActorID   string            `json:"actor_id"`
}

// NewDepositSubmittedEvent creates a DepositSubmittedEvent
func NewDepositSubmittedEvent(o *Order, amount valueobject.Money, method PaymentMethod, hasStock, recovered bool, actorID string) *DepositSubmittedEvent {
	return &DepositSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDepositSubmitted, AggregateTypeOrder, o.ID),
		OrderCode:       o.Code,
		Amount:          amount,
		Method:          method,
		HasStock:        hasStock,
		Recovered:       recovered,
		ActorID:         actorID,
	}
}

// FinalPaymentSettledEvent is raised after the remaining balance is charged
type FinalPaymentSettledEvent struct {
	shared.BaseDomainEvent
	OrderCode string            `json:"order_code"`
	Amount    valueobject.Money `json:"amount"`
	Method    PaymentMethod     `json:"method"`
	NewStatus Status            `json:"new_status"`
	ActorID   string            `json:"actor_id"`
}

// NewFinalPaymentSettledEvent creates a FinalPaymentSettledEvent
func NewFinalPaymentSettledEvent(o *Order, amount valueobject.Money, method PaymentMethod, actorID string) *FinalPaymentSettledEvent {
	return &FinalPaymentSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFinalPaymentSettled, AggregateTypeOrder, o.ID),
		OrderCode:       o.Code,
		Amount:          amount,
		Method:          method,
		NewStatus:       o.Status,
		ActorID:         actorID,
	}
}

// ContractGeneratedEvent is raised once a contract PDF is stored
type ContractGeneratedEvent struct {
	shared.BaseDomainEvent
	OrderCode  string `json:"order_code"`
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
}

// NewContractGeneratedEvent creates a ContractGeneratedEvent
func NewContractGeneratedEvent(orderID, orderCode, documentID, fileName string) *ContractGeneratedEvent {
	return &ContractGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractGenerated, AggregateTypeOrder, orderID),
		OrderCode:       orderCode,
		DocumentID:      documentID,
		FileName:        fileName,
	}
}

// ContractGenerationFailedEvent is raised when the payment went through but
// the contract could not be produced
type ContractGenerationFailedEvent struct {
	shared.BaseDomainEvent
	OrderCode string `json:"order_code"`
	Reason    string `json:"reason"`
}

// NewContractGenerationFailedEvent creates a ContractGenerationFailedEvent
func NewContractGenerationFailedEvent(orderID, orderCode, reason string) *ContractGenerationFailedEvent {
	return &ContractGenerationFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractGenerationFailed, AggregateTypeOrder, orderID),
		OrderCode:       orderCode,
		Reason:          reason,
	}
}
