package ledger

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Default pagination values
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// DebtFilter carries the listing query parameters understood by the backend
type DebtFilter struct {
	Page      int
	Limit     int
	Q         string
	Status    DebtStatus
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Normalize clamps pagination values into range
func (f DebtFilter) Normalize() DebtFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Query encodes the filter as URL query values; empty fields are omitted
func (f DebtFilter) Query() url.Values {
	f = f.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))
	if f.Q != "" {
		q.Set("q", f.Q)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.StartDate != nil {
		q.Set("start_date", f.StartDate.Format("2006-01-02"))
	}
	if f.EndDate != nil {
		q.Set("end_date", f.EndDate.Format("2006-01-02"))
	}
	if f.MinAmount != nil {
		q.Set("min_amount", f.MinAmount.String())
	}
	if f.MaxAmount != nil {
		q.Set("max_amount", f.MaxAmount.String())
	}
	return q
}

// Page is one page of a listing plus its pagination metadata
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a page, computing the page count
func NewPage[T any](items []T, total int64, page, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// Gateway is the debt and financing side of the dealership backend
type Gateway interface {
	ListDebts(ctx context.Context, debtorType DebtorType, filter DebtFilter) (Page[Debt], error)
	GetDebt(ctx context.Context, id string) (*Debt, error)
	CreateBankProfile(ctx context.Context, profile *BankProfile) (*BankProfile, error)
	GetBankProfile(ctx context.Context, id string) (*BankProfile, error)
	UpdateBankProfileStatus(ctx context.Context, id string, status BankProfileStatus, notes string) (*BankProfile, error)
}
