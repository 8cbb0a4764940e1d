package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
)

// Gateway is the network boundary of the storefront
type Gateway interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	SubmitOrder(ctx context.Context, o *order.Order) (order.Receipt, error)
}

// Metrics records storefront measurements
type Metrics interface {
	RecordCatalogFetch(ctx context.Context, products int, d time.Duration, err error)
	RecordOrderSubmission(ctx context.Context, payment string, total decimal.Decimal, d time.Duration, err error)
	RecordValidationFailure(ctx context.Context, step string)
	RecordInFlightRejected(ctx context.Context, operation string)
	RecordCartSize(ctx context.Context, entries int)
}

type nopMetrics struct{}

func (nopMetrics) RecordCatalogFetch(context.Context, int, time.Duration, error) {}
func (nopMetrics) RecordOrderSubmission(context.Context, string, decimal.Decimal, time.Duration, error) {}
func (nopMetrics) RecordValidationFailure(context.Context, string) {}
func (nopMetrics) RecordInFlightRejected(context.Context, string) {}
func (nopMetrics) RecordCartSize(context.Context, int) {}

func errMissingView(name string) error {
	return fmt.Errorf("storefront: %s view is required", name)
}
