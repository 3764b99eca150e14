package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

// VND is the only currency the dealership ledger deals in
const VND Currency = "VND"

// VNDSymbol is appended to formatted amounts
const VNDSymbol = "₫"

var vnPrinter = message.NewPrinter(language.Vietnamese)

// Money is a value object representing an amount of Vietnamese dong.
// Dong has no minor unit, so amounts are kept rounded to whole dong.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money rounded half-up to whole dong
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(0)}
}

// NewMoneyFromInt creates Money from an int64 number of dong
func NewMoneyFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// NewMoneyFromString parses a decimal string into Money
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d), nil
}

// Zero returns zero dong
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency always returns VND
func (m Money) Currency() Currency {
	return VND
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Subtract returns the difference of both amounts
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyByInt returns the amount multiplied by an integer, e.g. unit price by quantity
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor))}
}

// Percent returns pct percent of the amount rounded half-up to whole dong
func (m Money) Percent(pct decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Equals returns true if both amounts are equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan returns true if this amount is less than the other
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if this amount is greater than the other
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// String returns the localized currency representation, e.g. "1.000.000 ₫"
func (m Money) String() string {
	return FormatVND(m.amount)
}

// Words returns the amount spelled out in Vietnamese
func (m Money) Words() string {
	return AmountInWords(m.amount)
}

// MarshalJSON writes the amount as a bare JSON number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = d.Round(0)
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}

	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = d.Round(0)
	return nil
}

// FormatVND renders an amount with Vietnamese digit grouping and the dong
// symbol, e.g. 1000000 -> "1.000.000 ₫". Fractions are rounded to whole dong.
func FormatVND(amount decimal.Decimal) string {
	return vnPrinter.Sprintf("%d", amount.Round(0).IntPart()) + " " + VNDSymbol
}

// FormatNumber renders an amount with Vietnamese digit grouping only
func FormatNumber(amount decimal.Decimal) string {
	return vnPrinter.Sprintf("%d", amount.Round(0).IntPart())
}
