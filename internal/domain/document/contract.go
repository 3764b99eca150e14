package document

import (
	"strings"
	"time"

	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/domain/shared/valueobject"
)

// NotAvailable is rendered wherever a field could not be resolved
const NotAvailable = "N/A"

// LineKind classifies a line of the goods table
type LineKind string

const (
	LineVehicle   LineKind = "vehicle"
	LineAccessory LineKind = "accessory"
	LineOption    LineKind = "option"
	LineDiscount  LineKind = "discount"
)

// PartyInfo is one side of the contract, fully resolved for rendering
type PartyInfo struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	TaxCode        string `json:"tax_code,omitempty"`
	Representative string `json:"representative,omitempty"`
	IDNumber       string `json:"id_number,omitempty"`
}

// LineItem is one row of the goods table
type LineItem struct {
	Description string            `json:"description" binding:"required"`
	Kind        LineKind          `json:"kind"`
	Color       string            `json:"color,omitempty"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	Quantity    int64             `json:"quantity" binding:"required,min=1"`
	LineTotal   valueobject.Money `json:"line_total"`
}

// NewLineItem computes the line total from price and quantity
func NewLineItem(description string, kind LineKind, color string, unitPrice valueobject.Money, quantity int64) LineItem {
	if quantity <= 0 {
		quantity = 1
	}
	return LineItem{
		Description: description,
		Kind:        kind,
		Color:       color,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		LineTotal:   unitPrice.MultiplyByInt(quantity),
	}
}

// SumLines totals the line amounts
func SumLines(items []LineItem) valueobject.Money {
	total := valueobject.Zero()
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}

// ContractData is everything needed to render a sales contract.
// It is fully resolved: every string field is either real data or NotAvailable.
type ContractData struct {
	ContractCode    string            `json:"contract_code"`
	OrderID         string            `json:"order_id"`
	Location        string            `json:"location"`
	Customer        PartyInfo         `json:"customer"`
	Dealership      PartyInfo         `json:"dealership"`
	Items           []LineItem        `json:"items"`
	TotalAmount     valueobject.Money `json:"total_amount"`
	PaidAmount      valueobject.Money `json:"paid_amount"`
	RemainingAmount valueobject.Money `json:"remaining_amount"`
	PaymentMethod   string            `json:"payment_method"`
	DeliveryAddress string            `json:"delivery_address,omitempty"`
	DeliveryDate    *time.Time        `json:"delivery_date,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// GoodsTotal is the grand total of the goods table, discount lines included.
// Without lines it is the order amount.
func (d *ContractData) GoodsTotal() valueobject.Money {
	if len(d.Items) == 0 {
		return d.TotalAmount
	}
	return SumLines(d.Items)
}

// Validate checks the minimum needed to produce a contract
func (d *ContractData) Validate() error {
	if strings.TrimSpace(d.ContractCode) == "" {
		return shared.NewDomainError("INVALID_CONTRACT", "Contract code is required")
	}
	return nil
}

// FileName returns the download name of the contract
func (d *ContractData) FileName() string {
	return KindContract.FileName(d.ContractCode)
}

// QuoteData is everything needed to render a pre-sale quotation
type QuoteData struct {
	QuoteCode  string            `json:"quote_code" binding:"required"`
	Customer   PartyInfo         `json:"customer"`
	Dealership PartyInfo         `json:"dealership"`
	Items      []LineItem        `json:"items" binding:"required,min=1,dive"`
	Subtotal   valueobject.Money `json:"subtotal"`
	Discount   valueobject.Money `json:"discount"`
	Total      valueobject.Money `json:"total"`
	ValidUntil time.Time         `json:"valid_until" binding:"required"`
	Notes      string            `json:"notes,omitempty"`
}

// Validate checks the quote is renderable
func (q *QuoteData) Validate() error {
	if strings.TrimSpace(q.QuoteCode) == "" {
		return shared.NewDomainError("INVALID_QUOTE", "Quote code is required")
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("INVALID_QUOTE", "Quote must contain at least one item")
	}
	if q.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_QUOTE", "Discount cannot be negative")
	}
	return nil
}

// Recalculate fills line totals, subtotal and total from prices and quantities
func (q *QuoteData) Recalculate() {
	for i, it := range q.Items {
		q.Items[i] = NewLineItem(it.Description, it.Kind, it.Color, it.UnitPrice, it.Quantity)
	}
	q.Subtotal = SumLines(q.Items)
	q.Total = q.Subtotal.Subtract(q.Discount)
	if q.Total.IsNegative() {
		q.Total = valueobject.Zero()
	}
}

// FileName returns the download name of the quote
func (q *QuoteData) FileName() string {
	return KindQuote.FileName(q.QuoteCode)
}
