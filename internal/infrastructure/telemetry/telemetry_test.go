package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dms/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestPaymentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := telemetry.NewPaymentMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.PaymentStep(ctx, "deposit", "reserved")
	m.PaymentStep(ctx, "deposit", "reserved")
	m.PaymentStep(ctx, "final_payment", "rejected")
	m.ContractGenerated(ctx, "generated")
	m.StockRecheck(ctx)
	m.StockRecheck(ctx)
	m.StockRecheck(ctx)
	m.DocumentRendered(ctx, "contract", 750*time.Millisecond)

	metrics := collect(t, reader)

	payments, ok := metrics["dms_payments_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byKey := map[string]int64{}
	for _, dp := range payments.DataPoints {
		step, _ := dp.Attributes.Value(attribute.Key("step"))
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byKey[step.AsString()+"/"+outcome.AsString()] = dp.Value
	}
	assert.Equal(t, int64(2), byKey["deposit/reserved"])
	assert.Equal(t, int64(1), byKey["final_payment/rejected"])

	rechecks := metrics["dms_stock_recheck_attempts_total"].Data.(metricdata.Sum[int64])
	require.Len(t, rechecks.DataPoints, 1)
	assert.Equal(t, int64(3), rechecks.DataPoints[0].Value)

	contracts := metrics["dms_contracts_generated_total"].Data.(metricdata.Sum[int64])
	require.Len(t, contracts.DataPoints, 1)
	assert.Equal(t, int64(1), contracts.DataPoints[0].Value)

	render := metrics["dms_document_render_seconds"].Data.(metricdata.Histogram[float64])
	require.Len(t, render.DataPoints, 1)
	assert.Equal(t, uint64(1), render.DataPoints[0].Count)
}

func TestNewPaymentMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewPaymentMetrics(nil)
	require.Error(t, err)
	assert.Nil(t, m)
}

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := telemetry.StartServiceSpan(context.Background(), "payment", "submit_deposit",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, "ord-1"),
	)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, int64(150_000_000), telemetry.SpanAttrOutcome, "reserved")
	telemetry.AddEvent(span, "stock_recheck", telemetry.SpanAttrAttempt, 1)
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "payment.submit_deposit", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Events(), 2)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "ord-1", attrs["order_id"].AsString())
	assert.Equal(t, int64(150_000_000), attrs["amount"].AsInt64())
}
