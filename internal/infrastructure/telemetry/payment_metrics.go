package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// PaymentMetrics records the payment lifecycle counters:
//
//	dms_payments_total{step,outcome}
//	dms_contracts_generated_total{outcome}
//	dms_stock_recheck_attempts_total
//	dms_document_render_seconds{kind}
type PaymentMetrics struct {
	payments  *Counter
	contracts *Counter
	rechecks  *Counter
	render    *Histogram
}

// NewPaymentMetrics registers the payment instruments on meter
func NewPaymentMetrics(meter metric.Meter) (*PaymentMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewPaymentMetrics: meter cannot be nil")
	}
	payments, err := NewCounter(meter, "dms_payments_total", "Payment steps submitted, by step and outcome", "{payment}")
	if err != nil {
		return nil, err
	}
	contracts, err := NewCounter(meter, "dms_contracts_generated_total", "Contracts generated after full payment, by outcome", "{contract}")
	if err != nil {
		return nil, err
	}
	rechecks, err := NewCounter(meter, "dms_stock_recheck_attempts_total", "Order re-reads while waiting for stock to settle", "{attempt}")
	if err != nil {
		return nil, err
	}
	render, err := NewHistogram(meter, HistogramOpts{
		Name:        "dms_document_render_seconds",
		Description: "Time to render a PDF document",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentMetrics{payments: payments, contracts: contracts, rechecks: rechecks, render: render}, nil
}

// PaymentStep counts one deposit or final payment attempt
func (m *PaymentMetrics) PaymentStep(ctx context.Context, step, outcome string) {
	m.payments.Inc(ctx, AttrStep.String(step), AttrOutcome.String(outcome))
}

// ContractGenerated counts a post-payment contract attempt
func (m *PaymentMetrics) ContractGenerated(ctx context.Context, outcome string) {
	m.contracts.Inc(ctx, AttrOutcome.String(outcome))
}

// StockRecheck counts one order re-read during stock convergence
func (m *PaymentMetrics) StockRecheck(ctx context.Context) {
	m.rechecks.Inc(ctx)
}

// DocumentRendered records render latency for a document kind
func (m *PaymentMetrics) DocumentRendered(ctx context.Context, kind string, d time.Duration) {
	m.render.RecordDuration(ctx, d, AttrDocumentKind.String(kind))
}
