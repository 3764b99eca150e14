package shared

import "context"

// EventHandler reacts to lifecycle events such as a settled deposit or a
// generated contract. EventTypes lists the types it wants; empty means all.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services publish lifecycle events to.
// Publishing is fire-and-forget: a failing handler never fails the payment.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher whose subscriptions are managed at startup
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
