package order

import (
	"fmt"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Addon is an accessory or option sold with a vehicle line
type Addon struct {
	ID       string            `json:"_id,omitempty"`
	Name     string            `json:"name"`
	Price    valueobject.Money `json:"price"`
	Quantity int64             `json:"quantity"`
}

// EffectiveQuantity treats a missing quantity as one unit
func (a Addon) EffectiveQuantity() int64 {
	if a.Quantity <= 0 {
		return 1
	}
	return a.Quantity
}

// Item is one vehicle line of an order
type Item struct {
	Vehicle     Reference[Vehicle] `json:"vehicle_id"`
	VehicleName string             `json:"vehicle_name,omitempty"`
	Color       string             `json:"color,omitempty"`
	Quantity    int64              `json:"quantity"`
	UnitPrice   valueobject.Money  `json:"vehicle_price"`
	Accessories []Addon            `json:"accessories,omitempty"`
	Options     []Addon            `json:"options,omitempty"`
	Promotion   string             `json:"promotion_id,omitempty"`
	Discount    valueobject.Money  `json:"discount"`
	FinalAmount valueobject.Money  `json:"final_amount"`
}

// Delivery holds the optional delivery arrangement
type Delivery struct {
	Address       string     `json:"address,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// ContractInfo records whether the sales contract has been signed
type ContractInfo struct {
	Signed   bool       `json:"signed"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

// Order is the central dealership sales order. It is owned by the backend;
// this service only ever holds a snapshot of it.
type Order struct {
	ID            string
	Code          string
	Customer      Reference[Customer]
	Dealership    Reference[Dealership]
	FinalAmount   valueobject.Money
	PaidAmount    valueobject.Money
	Status        Status
	PaymentMethod string
	Items         []Item
	Delivery      *Delivery
	Contract      ContractInfo
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RemainingAmount is final minus paid, never negative
func (o *Order) RemainingAmount() valueobject.Money {
	r := o.FinalAmount.Subtract(o.PaidAmount)
	if r.IsNegative() {
		return valueobject.Zero()
	}
	return r
}

// Validate checks the amount invariants of a snapshot
func (o *Order) Validate() error {
	if o.FinalAmount.IsNegative() || o.PaidAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order amounts cannot be negative")
	}
	if o.PaidAmount.GreaterThan(o.FinalAmount) {
		return shared.NewDomainError("OVERPAID", fmt.Sprintf(
			"Paid amount %s exceeds final amount %s", o.PaidAmount, o.FinalAmount))
	}
	return nil
}

// DealershipID returns the owning dealership id, empty if unknown
func (o *Order) DealershipID() string {
	return o.Dealership.ID()
}

// Summary is the payment position derived from an order snapshot
type Summary struct {
	TotalAmount     valueobject.Money `json:"total_amount"`
	PaidAmount      valueobject.Money `json:"paid_amount"`
	RemainingAmount valueobject.Money `json:"remaining_amount"`
	Progress        int               `json:"payment_progress"`
	IsFirstPayment  bool              `json:"is_first_payment"`
}

// IsFullyPaid reports whether the whole amount has been received
func (s Summary) IsFullyPaid() bool {
	return s.Progress == 100
}

// Summarize derives the payment position of the order.
// Progress only reaches 100 once paid equals total; a balance of a few dong
// would otherwise round up and hide the outstanding remainder.
func (o *Order) Summarize() Summary {
	total := o.FinalAmount
	paid := o.PaidAmount
	s := Summary{
		TotalAmount:     total,
		PaidAmount:      paid,
		RemainingAmount: o.RemainingAmount(),
		IsFirstPayment:  paid.IsZero(),
	}

	if !total.IsPositive() {
		return s
	}
	if !paid.LessThan(total) {
		s.Progress = 100
		return s
	}

	pct := paid.Amount().Mul(decimal.NewFromInt(100)).Div(total.Amount()).Round(0).IntPart()
	if pct > 99 {
		pct = 99
	}
	if pct < 0 {
		pct = 0
	}
	s.Progress = int(pct)
	return s
}
