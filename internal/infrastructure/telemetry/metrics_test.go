package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumFor(t *testing.T, data metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	want := attribute.NewSet(attrs...)
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			return dp.Value
		}
	}
	return 0
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:     false,
		ServiceName: "test-service",
	}, logger)
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewStorefrontMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewStorefrontMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestStorefrontMetrics_Noop(t *testing.T) {
	m, err := telemetry.NewStorefrontMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordCatalogFetch(ctx, 10, time.Millisecond, nil)
		m.RecordOrderSubmission(ctx, "card", decimal.NewFromInt(750), time.Millisecond, nil)
		m.RecordValidationFailure(ctx, "delivery")
		m.RecordInFlightRejected(ctx, "order")
		m.RecordCartSize(ctx, 2)
		m.RecordHandlerFailure(ctx, "cart.changed")
	})
}

func TestStorefrontMetrics_Record(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()

	mp, err := telemetry.NewMeterProviderWithReader(telemetry.MetricsConfig{
		Enabled:     true,
		ServiceName: "test-service",
	}, reader, logger)
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(ctx) }()
	assert.True(t, mp.IsEnabled())

	m, err := telemetry.NewStorefrontMetrics(mp.Meter("storefront"))
	require.NoError(t, err)

	m.RecordCatalogFetch(ctx, 10, 20*time.Millisecond, nil)
	m.RecordCatalogFetch(ctx, 0, time.Second, errors.New("timeout"))
	m.RecordOrderSubmission(ctx, "card", decimal.NewFromInt(750), 30*time.Millisecond, nil)
	m.RecordOrderSubmission(ctx, "cash", decimal.NewFromInt(100), 30*time.Millisecond, errors.New("502"))
	m.RecordValidationFailure(ctx, "contacts")
	m.RecordValidationFailure(ctx, "contacts")
	m.RecordInFlightRejected(ctx, "order")

	data := collect(t, reader)

	assert.Equal(t, int64(1), sumFor(t, data["larek_catalog_fetch_total"], telemetry.AttrOutcome.String(telemetry.OutcomeSuccess)))
	assert.Equal(t, int64(1), sumFor(t, data["larek_catalog_fetch_total"], telemetry.AttrOutcome.String(telemetry.OutcomeFailure)))
	assert.Equal(t, int64(750), sumFor(t, data["larek_order_amount_total"], telemetry.AttrPaymentMethod.String("card")))
	assert.Equal(t, int64(0), sumFor(t, data["larek_order_amount_total"], telemetry.AttrPaymentMethod.String("cash")))
	assert.Equal(t, int64(2), sumFor(t, data["larek_checkout_validation_failures_total"], telemetry.AttrStep.String("contacts")))
	assert.Equal(t, int64(1), sumFor(t, data["larek_inflight_rejected_total"], telemetry.AttrOperation.String("order")))

	gauge, ok := data["larek_catalog_products"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(10), gauge.DataPoints[0].Value)
}
