package ledger

import (
	"time"

	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// DebtorType identifies who owes the debt
type DebtorType string

const (
	DebtorCustomer     DebtorType = "customer"
	DebtorManufacturer DebtorType = "manufacturer"
	DebtorDealer       DebtorType = "dealer"
)

// IsValid checks if the debtor type is known
func (t DebtorType) IsValid() bool {
	switch t {
	case DebtorCustomer, DebtorManufacturer, DebtorDealer:
		return true
	}
	return false
}

// DebtStatus is the settlement state of a debt
type DebtStatus string

const (
	DebtStatusActive    DebtStatus = "active"
	DebtStatusPartial   DebtStatus = "partial"
	DebtStatusPaid      DebtStatus = "paid"
	DebtStatusOverdue   DebtStatus = "overdue"
	DebtStatusCancelled DebtStatus = "cancelled"
)

// IsValid checks if the status is a known DebtStatus
func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusActive, DebtStatusPartial, DebtStatusPaid, DebtStatusOverdue, DebtStatusCancelled:
		return true
	}
	return false
}

// Label returns the Vietnamese display label
func (s DebtStatus) Label() string {
	switch s {
	case DebtStatusActive:
		return "Còn nợ"
	case DebtStatusPartial:
		return "Đã trả một phần"
	case DebtStatusPaid:
		return "Đã tất toán"
	case DebtStatusOverdue:
		return "Quá hạn"
	case DebtStatusCancelled:
		return "Đã hủy"
	}
	return string(s)
}

// Debt is a ledger entry of money owed by a customer, manufacturer or dealer
type Debt struct {
	ID              string            `json:"_id"`
	DebtorID        string            `json:"debtor_id"`
	DebtorName      string            `json:"debtor_name,omitempty"`
	DebtorType      DebtorType        `json:"debtor_type"`
	OrderID         string            `json:"order_id,omitempty"`
	TotalAmount     valueobject.Money `json:"total_amount"`
	PaidAmount      valueobject.Money `json:"paid_amount"`
	RemainingAmount valueobject.Money `json:"remaining_amount"`
	Status          DebtStatus        `json:"status"`
	DueDate         *time.Time        `json:"due_date,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// DeriveStatus computes the status the debt should have at now.
// A cancelled debt stays cancelled; otherwise paid iff nothing remains and
// overdue iff the due date has passed with a balance outstanding.
func (d *Debt) DeriveStatus(now time.Time) DebtStatus {
	if d.Status == DebtStatusCancelled {
		return DebtStatusCancelled
	}
	remaining := d.TotalAmount.Subtract(d.PaidAmount)
	if !remaining.IsPositive() {
		return DebtStatusPaid
	}
	if d.DueDate != nil && now.After(*d.DueDate) {
		return DebtStatusOverdue
	}
	if d.PaidAmount.IsPositive() {
		return DebtStatusPartial
	}
	return DebtStatusActive
}

// Normalize recomputes the remaining amount and status from the totals
func (d *Debt) Normalize(now time.Time) {
	remaining := d.TotalAmount.Subtract(d.PaidAmount)
	if remaining.IsNegative() {
		remaining = valueobject.Zero()
	}
	d.RemainingAmount = remaining
	d.Status = d.DeriveStatus(now)
}
