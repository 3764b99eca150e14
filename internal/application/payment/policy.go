package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/dms/backend/internal/domain/order"
	"github.com/dms/backend/internal/domain/shared/valueobject"
	"github.com/dms/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

// Default policy values
const (
	DefaultDepositMinPercent = 10
	DefaultDepositMaxPercent = 30
	DefaultRecheckAttempts   = 3
	DefaultRecheckDelay      = time.Second
	DefaultRecheckMultiplier = 2.0
	DefaultRecheckMaxDelay   = 4 * time.Second
)

const (
	contractKeyPrefix       = "contract:fully_paid:"
	defaultContractClaimTTL = 30 * 24 * time.Hour
)

// metric label values
const (
	stepDeposit             = "deposit"
	stepFinalPayment        = "final_payment"
	outcomeReserved         = "reserved"
	outcomeRestockRequested = "restock_requested"
	outcomeRejected         = "rejected"
	outcomeFailed           = "failed"
	outcomeStockPending     = "stock_pending"
	outcomeSettled          = "settled"

	contractOutcomeGenerated  = "generated"
	contractOutcomeFailed     = "failed"
	contractOutcomeDuplicate  = "duplicate"
	contractOutcomeStoreError = "store_error"
)

// DepositPolicy bounds the deposit percentage, both ends inclusive
type DepositPolicy struct {
	MinPercent int
	MaxPercent int
}

// Amount returns round(total*pct/100) after checking the bounds. Fractional
// percentages are allowed.
func (p DepositPolicy) Amount(total valueobject.Money, pct decimal.Decimal) (valueobject.Money, error) {
	if pct.LessThan(decimal.NewFromInt(int64(p.MinPercent))) || pct.GreaterThan(decimal.NewFromInt(int64(p.MaxPercent))) {
		return valueobject.Money{}, ErrDepositPercentOutOfRange.WithMessage(fmt.Sprintf(
			"Tỷ lệ đặt cọc phải từ %d%% đến %d%%", p.MinPercent, p.MaxPercent))
	}
	return total.Percent(pct), nil
}

// WaitFunc blocks for d or until ctx is done
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext waits on a timer and returns ctx.Err() if ctx ends first
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ConvergencePolicy is the bounded exponential backoff used while waiting for
// the backend to settle an order after a soft stock failure
type ConvergencePolicy struct {
	Attempts     int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// Delay returns the wait before the given attempt, counting from zero
func (p ConvergencePolicy) Delay(attempt int) time.Duration {
	d := float64(p.InitialDelay)
	for i := 0; i < attempt; i++ {
		d *= p.Multiplier
		if p.MaxDelay > 0 && time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return time.Duration(d)
}

// Await re-fetches the order up to Attempts times, waiting before each read,
// until settled reports true. Fetch errors count as an unsettled attempt.
// The last order seen is returned with settled=false when the attempts run
// out; only context cancellation is returned as an error.
func (p ConvergencePolicy) Await(
	ctx context.Context,
	wait WaitFunc,
	fetch func(ctx context.Context, attempt int) (*order.Order, error),
	settled func(*order.Order) bool,
) (*order.Order, bool, error) {
	if wait == nil {
		wait = SleepContext
	}
	var last *order.Order
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err := wait(ctx, p.Delay(attempt)); err != nil {
			return last, false, err
		}
		o, err := fetch(ctx, attempt+1)
		if err != nil {
			if ctx.Err() != nil {
				return last, false, ctx.Err()
			}
			continue
		}
		last = o
		if settled(o) {
			return o, true, nil
		}
	}
	return last, false, nil
}

// Config holds the payment lifecycle policy
type Config struct {
	Deposit          DepositPolicy
	Convergence      ConvergencePolicy
	ContractClaimTTL time.Duration
}

// DefaultConfig returns the built-in policy
func DefaultConfig() Config {
	convergence := ConvergencePolicy{
		Attempts:     DefaultRecheckAttempts,
		InitialDelay: DefaultRecheckDelay,
		Multiplier:   DefaultRecheckMultiplier,
		MaxDelay:     DefaultRecheckMaxDelay,
	}
	return Config{
		Deposit:          DepositPolicy{MinPercent: DefaultDepositMinPercent, MaxPercent: DefaultDepositMaxPercent},
		Convergence:      convergence,
		ContractClaimTTL: defaultContractClaimTTL,
	}
}

// NewConfig builds the policy from settings, keeping defaults for unset values
func NewConfig(c config.PaymentConfig) Config {
	cfg := DefaultConfig()
	if c.DepositMinPercent > 0 {
		cfg.Deposit.MinPercent = c.DepositMinPercent
	}
	if c.DepositMaxPercent > 0 {
		cfg.Deposit.MaxPercent = c.DepositMaxPercent
	}
	if c.StockRecheckAttempts > 0 {
		cfg.Convergence.Attempts = c.StockRecheckAttempts
	}
	if c.StockRecheckInitialDelay > 0 {
		cfg.Convergence.InitialDelay = c.StockRecheckInitialDelay
	}
	if c.StockRecheckMultiplier >= 1 {
		cfg.Convergence.Multiplier = c.StockRecheckMultiplier
	}
	if c.StockRecheckMaxDelay > 0 {
		cfg.Convergence.MaxDelay = c.StockRecheckMaxDelay
	}
	if c.ContractIdempotencyTTL > 0 {
		cfg.ContractClaimTTL = c.ContractIdempotencyTTL
	}
	return cfg
}

// ContractKey is the idempotency key claimed before generating the contract
// of an order that became fully paid
func ContractKey(orderID string) string {
	return contractKeyPrefix + orderID
}
