package order

import (
	"time"

	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// PaymentMethod is how a payment was received
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodBank PaymentMethod = "bank"
	PaymentMethodQR   PaymentMethod = "qr"
	PaymentMethodCard PaymentMethod = "card"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodQR, PaymentMethodCard:
		return true
	}
	return false
}

// Label returns the Vietnamese display label
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Tiền mặt"
	case PaymentMethodBank:
		return "Chuyển khoản"
	case PaymentMethodQR:
		return "QR"
	case PaymentMethodCard:
		return "Thẻ"
	}
	return string(m)
}

// Payment is an immutable ledger record of money received against an order
type Payment struct {
	ID            string            `json:"_id"`
	OrderID       string            `json:"order_id"`
	CustomerID    string            `json:"customer_id,omitempty"`
	Amount        valueobject.Money `json:"amount"`
	Method        PaymentMethod     `json:"method"`
	ReferenceCode string            `json:"reference_code,omitempty"`
	PaidAt        time.Time         `json:"paid_at"`
	Notes         string            `json:"notes,omitempty"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the payment was soft-deleted
func (p Payment) IsDeleted() bool {
	return p.DeletedAt != nil
}

// SumActivePayments totals the payments that have not been soft-deleted.
// For a consistent ledger this equals the order's paid amount.
func SumActivePayments(payments []Payment) valueobject.Money {
	sum := valueobject.Zero()
	for _, p := range payments {
		if p.IsDeleted() {
			continue
		}
		sum = sum.Add(p.Amount)
	}
	return sum
}

// StatusLog is an append-only entry of an order's timeline
type StatusLog struct {
	ID                string     `json:"_id"`
	OrderID           string     `json:"order_id"`
	OldStatus         Status     `json:"old_status,omitempty"`
	NewStatus         Status     `json:"new_status"`
	OldDeliveryStatus string     `json:"old_delivery_status,omitempty"`
	NewDeliveryStatus string     `json:"new_delivery_status,omitempty"`
	ChangedBy         string     `json:"changed_by,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	ChangedAt         time.Time  `json:"changed_at"`
	DeletedAt         *time.Time `json:"-"`
}
