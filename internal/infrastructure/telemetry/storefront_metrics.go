package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Attribute keys shared by the storefront instruments
var (
	AttrOutcome       = attribute.Key("outcome")
	AttrOperation     = attribute.Key("operation")
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrStep          = attribute.Key("step")
	AttrEventName     = attribute.Key("event_name")
)

// APIDurationBuckets are bucket boundaries for API call duration (seconds).
var APIDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// StorefrontMetrics records catalog, cart and checkout activity.
type StorefrontMetrics struct {
	catalogFetchTotal    counter
	catalogFetchDuration durations
	catalogSize          gauge
	orderSubmitTotal     counter
	orderSubmitDuration  durations
	orderAmountTotal     counter
	validationFailures   counter
	inFlightRejected     counter
	cartEntries          gauge
	handlerFailures      counter
}

// NewStorefrontMetrics creates the storefront instruments on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	b := &instruments{meter: meter}
	m := &StorefrontMetrics{
		catalogFetchTotal:    b.counter("larek_catalog_fetch_total", "Catalog fetches by outcome", "{fetches}"),
		catalogFetchDuration: b.durations("larek_catalog_fetch_duration_seconds", "Catalog fetch duration", APIDurationBuckets),
		catalogSize:          b.gauge("larek_catalog_products", "Products in the last fetched catalog", "{products}"),
		orderSubmitTotal:     b.counter("larek_order_submit_total", "Order submissions by outcome", "{orders}"),
		orderSubmitDuration:  b.durations("larek_order_submit_duration_seconds", "Order submission duration", APIDurationBuckets),
		orderAmountTotal:     b.counter("larek_order_amount_total", "Accepted order amount in synapses", "{synapses}"),
		validationFailures:   b.counter("larek_checkout_validation_failures_total", "Checkout gate rejections by step", "{failures}"),
		inFlightRejected:     b.counter("larek_inflight_rejected_total", "Operations refused because one was already running", "{operations}"),
		cartEntries:          b.gauge("larek_cart_entries", "Distinct entries in the cart", "{entries}"),
		handlerFailures:      b.counter("larek_event_handler_failures_total", "Bus handlers that failed or panicked", "{failures}"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordCatalogFetch records one catalog fetch.
func (m *StorefrontMetrics) RecordCatalogFetch(ctx context.Context, products int, d time.Duration, err error) {
	m.catalogFetchTotal.add(ctx, 1, AttrOutcome.String(outcome(err)))
	m.catalogFetchDuration.observe(ctx, d, AttrOutcome.String(outcome(err)))
	if err == nil {
		m.catalogSize.set(ctx, int64(products))
	}
}

// RecordOrderSubmission records one order submission.
func (m *StorefrontMetrics) RecordOrderSubmission(ctx context.Context, payment string, total decimal.Decimal, d time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrOutcome.String(outcome(err)), AttrPaymentMethod.String(payment)}
	m.orderSubmitTotal.add(ctx, 1, attrs...)
	m.orderSubmitDuration.observe(ctx, d, attrs...)
	if err == nil {
		m.orderAmountTotal.add(ctx, total.Round(0).IntPart(), AttrPaymentMethod.String(payment))
	}
}

// RecordValidationFailure records a checkout gate rejection.
func (m *StorefrontMetrics) RecordValidationFailure(ctx context.Context, step string) {
	m.validationFailures.add(ctx, 1, AttrStep.String(step))
}

// RecordInFlightRejected records an operation refused by the in-flight policy.
func (m *StorefrontMetrics) RecordInFlightRejected(ctx context.Context, operation string) {
	m.inFlightRejected.add(ctx, 1, AttrOperation.String(operation))
}

// RecordCartSize records the current number of cart entries.
func (m *StorefrontMetrics) RecordCartSize(ctx context.Context, entries int) {
	m.cartEntries.set(ctx, int64(entries))
}

// RecordHandlerFailure records a failed bus handler.
func (m *StorefrontMetrics) RecordHandlerFailure(ctx context.Context, eventName string) {
	m.handlerFailures.add(ctx, 1, AttrEventName.String(eventName))
}
